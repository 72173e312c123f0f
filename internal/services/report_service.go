package services

import (
	"encoding/csv"
	"errors"
	"io"
	"sort"
	"strconv"

	"gorm.io/gorm"

	apperrors "hardhat/internal/errors"
	"hardhat/internal/models"
)

// reportService computes budget and reporting rollups. All aggregation
// happens in pure functions over snapshots fetched here; the functions
// themselves never touch the database.
type reportService struct {
	db *gorm.DB
}

// NewReportService creates a new ReportServicer.
func NewReportService(db *gorm.DB) ReportServicer {
	return &reportService{db: db}
}

// ComputeJobBudget rolls one job's materials and invoices into a budget
// view. Missing amounts count as zero; an empty job yields all-zero
// aggregates. Remaining subtracts only APPROVED and PAID invoices and
// may go negative when a job runs over budget.
func ComputeJobBudget(budgetTotal float64, materials []models.JobMaterial, invoices []models.Invoice) BudgetView {
	view := BudgetView{
		BudgetTotal:    budgetTotal,
		VendorSpending: make(map[string]float64),
		TradeSpending:  make(map[models.Trade]float64),
		InvoiceCount:   len(invoices),
		MaterialCount:  len(materials),
	}

	for i := range invoices {
		inv := &invoices[i]
		amount := inv.Amount()
		view.TotalInvoiced += amount
		if inv.Status == models.InvoiceStatusApproved || inv.Status == models.InvoiceStatusPaid {
			view.ApprovedInvoiced += amount
		}
		view.VendorSpending[inv.Vendor()] += amount
	}

	for i := range materials {
		m := &materials[i]
		cost := m.EstimatedCost()
		view.EstimatedMaterialCost += cost
		view.TradeSpending[m.Trade] += cost
	}

	view.Remaining = budgetTotal - view.ApprovedInvoiced
	if budgetTotal > 0 {
		view.PercentUsed = view.ApprovedInvoiced / budgetTotal * 100
	}
	return view
}

// SummarizeJobs builds one summary row per job. Each job must have its
// Materials and Invoices preloaded. TotalInvoiced here counts invoices
// of every status, unlike the single-job budget view.
func SummarizeJobs(jobs []models.Job) []JobSummaryView {
	summaries := make([]JobSummaryView, 0, len(jobs))
	for i := range jobs {
		job := &jobs[i]
		row := JobSummaryView{
			ID:            job.ID,
			Name:          job.Name,
			JobNumber:     job.JobNumber,
			Status:        job.Status,
			Budget:        job.BudgetTotal,
			MaterialCount: len(job.Materials),
			InvoiceCount:  len(job.Invoices),
		}
		for j := range job.Invoices {
			row.TotalInvoiced += job.Invoices[j].Amount()
		}
		for j := range job.Materials {
			row.EstimatedCost += job.Materials[j].EstimatedCost()
		}
		summaries = append(summaries, row)
	}
	return summaries
}

// GroupVendors groups invoices by vendor name, summing spend across all
// statuses and counting distinct job numbers. Each invoice must have its
// Job preloaded. The result is ordered by vendor name ascending and does
// not depend on the input order.
func GroupVendors(invoices []models.Invoice) []VendorSummaryView {
	type bucket struct {
		total   float64
		count   int
		jobNums map[string]struct{}
	}
	vendors := make(map[string]*bucket)

	for i := range invoices {
		inv := &invoices[i]
		name := inv.Vendor()
		b := vendors[name]
		if b == nil {
			b = &bucket{jobNums: make(map[string]struct{})}
			vendors[name] = b
		}
		b.total += inv.Amount()
		b.count++
		if inv.Job != nil {
			b.jobNums[inv.Job.JobNumber] = struct{}{}
		}
	}

	report := make([]VendorSummaryView, 0, len(vendors))
	for name, b := range vendors {
		report = append(report, VendorSummaryView{
			VendorName:   name,
			TotalSpent:   b.total,
			InvoiceCount: b.count,
			JobCount:     len(b.jobNums),
		})
	}
	sort.Slice(report, func(i, j int) bool {
		return report[i].VendorName < report[j].VendorName
	})
	return report
}

// JobBudget fetches one job's snapshot and computes its budget view.
func (s *reportService) JobBudget(jobID string) (*BudgetView, error) {
	var job models.Job
	if err := s.db.Where("id = ?", jobID).First(&job).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var materials []models.JobMaterial
	if err := s.db.Where("job_id = ?", jobID).Find(&materials).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var invoices []models.Invoice
	if err := s.db.Where("job_id = ?", jobID).Find(&invoices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	view := ComputeJobBudget(job.BudgetTotal, materials, invoices)
	return &view, nil
}

// FleetSummary computes the summary row for every job.
func (s *reportService) FleetSummary() ([]JobSummaryView, error) {
	var jobs []models.Job
	err := s.db.Preload("Materials").Preload("Invoices").Order("job_number ASC").Find(&jobs).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return SummarizeJobs(jobs), nil
}

// VendorReport aggregates spending per vendor, optionally scoped to one job.
func (s *reportService) VendorReport(jobID *string) ([]VendorSummaryView, error) {
	query := s.db.Preload("Job")
	if jobID != nil {
		query = query.Where("job_id = ?", *jobID)
	}

	var invoices []models.Invoice
	if err := query.Find(&invoices).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return GroupVendors(invoices), nil
}

// MaterialsReport lists a job's materials grouped for reporting, ordered
// by trade then status.
func (s *reportService) MaterialsReport(jobID string) ([]models.JobMaterial, error) {
	var count int64
	if err := s.db.Model(&models.Job{}).Where("id = ?", jobID).Count(&count).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if count == 0 {
		return nil, apperrors.ErrJobNotFound
	}

	var materials []models.JobMaterial
	err := s.db.Where("job_id = ?", jobID).
		Preload("CatalogItem").
		Order("trade ASC").
		Order("status ASC").
		Find(&materials).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return materials, nil
}

// WriteFleetCSV writes the fleet summary as CSV for export consumers.
// Column order matches the existing report downloads.
func (s *reportService) WriteFleetCSV(w io.Writer) error {
	summaries, err := s.FleetSummary()
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := []string{"Job #", "Name", "Status", "Budget", "Invoiced", "Estimated Cost", "Materials", "Invoices"}
	if err := cw.Write(header); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	for _, row := range summaries {
		record := []string{
			row.JobNumber,
			row.Name,
			string(row.Status),
			formatAmount(row.Budget),
			formatAmount(row.TotalInvoiced),
			formatAmount(row.EstimatedCost),
			strconv.Itoa(row.MaterialCount),
			strconv.Itoa(row.InvoiceCount),
		}
		if err := cw.Write(record); err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// formatAmount renders a currency amount with two decimal places.
func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
