package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/student-portal-api/internal/dto"
	"github.com/noah-isme/student-portal-api/internal/models"
	appErrors "github.com/noah-isme/student-portal-api/pkg/errors"
	"github.com/noah-isme/student-portal-api/pkg/export"
)

type enrollmentReader interface {
	Get(ctx context.Context, query dto.EnrollmentQuery) (json.RawMessage, bool, error)
}

type attendanceReader interface {
	Summary(ctx context.Context, query dto.AttendanceQuery) (models.AttendanceSummary, bool, error)
}

type resultReader interface {
	List(ctx context.Context, query dto.EnrollmentQuery) (json.RawMessage, bool, error)
}

type documentRenderer interface {
	Render(doc export.Document) ([]byte, error)
}

// ReportFile is a rendered report ready to be sent as an attachment.
type ReportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// ReportService assembles the combined enrollment, attendance and exam report.
type ReportService struct {
	enrollments enrollmentReader
	attendance  attendanceReader
	results     resultReader
	csv         documentRenderer
	pdf         documentRenderer
	logger      *zap.Logger
	now         func() time.Time
}

// NewReportService constructs ReportService. Nil renderers fall back to the default exporters.
func NewReportService(enrollments enrollmentReader, attendance attendanceReader, results resultReader, csv, pdf documentRenderer, logger *zap.Logger) *ReportService {
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		enrollments: enrollments,
		attendance:  attendance,
		results:     results,
		csv:         csv,
		pdf:         pdf,
		logger:      logger,
		now:         time.Now,
	}
}

// Build fetches the enrollment, then its attendance and exam results concurrently.
func (s *ReportService) Build(ctx context.Context, query dto.EnrollmentQuery) (*models.StudentReport, error) {
	rawEnrollment, _, err := s.enrollments.Get(ctx, query)
	if err != nil {
		return nil, err
	}

	var enrollment models.Enrollment
	if err := json.Unmarshal(rawEnrollment, &enrollment); err != nil {
		s.logger.Error("decode enrollment for report", zap.String("enrollment", query.Enrollment), zap.Error(err))
		return nil, appErrors.WithDetails(appErrors.ErrUpstream, 0, nil, err)
	}
	if enrollment.Student == "" {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment has no linked student")
	}

	var (
		summary    models.AttendanceSummary
		rawResults json.RawMessage
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		summary, _, err = s.attendance.Summary(gctx, dto.AttendanceQuery{StudentID: enrollment.Student})
		return err
	})
	g.Go(func() error {
		var err error
		rawResults, _, err = s.results.List(gctx, query)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rawResults = normaliseList(rawResults)
	var exams []models.ExamResult
	if err := json.Unmarshal(rawResults, &exams); err != nil {
		s.logger.Error("decode exam results for report", zap.String("enrollment", query.Enrollment), zap.Error(err))
		return nil, appErrors.WithDetails(appErrors.ErrUpstream, 0, nil, err)
	}

	return &models.StudentReport{
		Student:          rawEnrollment,
		EnrollmentStatus: enrollment.Status(),
		Attendance:       summary,
		AttendanceStats:  AttendanceStatsFor(summary),
		ExamResults:      rawResults,
		ExamStats:        ExamStatsFor(exams),
		Enrollment:       enrollment,
		Exams:            exams,
	}, nil
}

// Export builds the report and renders it. An empty format defaults to PDF.
func (s *ReportService) Export(ctx context.Context, query dto.ReportExportQuery) (*ReportFile, error) {
	format := models.ReportFormat(strings.ToLower(strings.TrimSpace(string(query.Format))))
	if format == "" {
		format = models.ReportFormatPDF
	}
	if !format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("format %q is not supported, use pdf or csv", query.Format))
	}

	report, err := s.Build(ctx, dto.EnrollmentQuery{Enrollment: query.Enrollment})
	if err != nil {
		return nil, err
	}

	doc := s.buildDocument(report)
	var (
		body        []byte
		contentType string
	)
	switch format {
	case models.ReportFormatCSV:
		body, err = s.csv.Render(doc)
		contentType = "text/csv"
	default:
		body, err = s.pdf.Render(doc)
		contentType = "application/pdf"
	}
	if err != nil {
		s.logger.Error("render report", zap.String("format", string(format)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	return &ReportFile{
		Filename:    s.buildFilename(report.Enrollment.Name, query.Enrollment, format),
		ContentType: contentType,
		Body:        body,
	}, nil
}

// ExamStatsFor totals marks across exam results. Percentage has one decimal place.
func ExamStatsFor(exams []models.ExamResult) models.ExamStats {
	stats := models.ExamStats{Exams: len(exams)}
	for _, exam := range exams {
		stats.TotalMarks += float64(exam.TotalMark)
		stats.ObtainedMarks += float64(exam.StudentMark)
	}
	if stats.TotalMarks > 0 {
		stats.Percentage = roundTenth(stats.ObtainedMarks / stats.TotalMarks * 100)
	}
	return stats
}

func (s *ReportService) buildFilename(name, fallback string, format models.ReportFormat) string {
	if name == "" {
		name = fallback
	}
	return fmt.Sprintf("report_%s_%s.%s", sanitizeFilename(name), uuid.NewString()[:8], format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_", `"`, "")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ReportService) buildDocument(report *models.StudentReport) export.Document {
	e := report.Enrollment
	subtitle := fmt.Sprintf("%s (%s) - generated %s", e.StudentName, e.Name, s.now().Format("2006-01-02 15:04"))

	student := export.Dataset{
		Title:   "Student",
		Headers: []string{"Field", "Value"},
		Rows: fieldRows("Field",
			"Enrollment", e.Name,
			"Student ID", e.Student,
			"Student Name", e.StudentName,
			"Mobile", e.StudentMobile,
			"Program", e.Program,
			"Batch", e.Batch,
			"Preferred Centre", e.PreferredCentre,
			"Hostel", e.HostelName(),
			"Status", string(report.EnrollmentStatus),
			"Enrolled On", e.Creation,
			"Dropout Reason", e.DropoutReason,
			"Offered Amount", formatAmount(e.OfferedAmount),
			"Discount", formatAmount(e.DiscountAmount),
			"Net Fee", formatAmount(e.NewOfferedAmount),
			"Fee Paid", formatAmount(e.TotalCourseFeePaid),
			"Balance", formatAmount(e.CourseFeeBalance),
		),
	}

	stats := report.AttendanceStats
	attendanceStats := export.Dataset{
		Title:   "Attendance Summary",
		Headers: []string{"Metric", "Value"},
		Rows: fieldRows("Metric",
			"Days at batch", strconv.Itoa(stats.AtBatchDays),
			"Days at hostel", strconv.Itoa(stats.AtHostelDays),
			"Days at home", strconv.Itoa(stats.AtHomeDays),
			"Batch present rate", formatPercent(stats.Batch.PresentRate),
			"Hostel present rate", formatPercent(stats.Hostel.PresentRate),
		),
	}

	days := make([]string, 0, len(report.Attendance.DailySummary))
	for day := range report.Attendance.DailySummary {
		days = append(days, day)
	}
	sort.Strings(days)
	daily := export.Dataset{Title: "Daily Attendance", Headers: []string{"Date", "Batch", "Hostel", "Location"}}
	for _, day := range days {
		daily.Rows = append(daily.Rows, map[string]string{
			"Date":     day,
			"Batch":    report.Attendance.BatchSummary[day],
			"Hostel":   report.Attendance.HostelSummary[day],
			"Location": string(report.Attendance.DailySummary[day]),
		})
	}

	exams := export.Dataset{Title: "Exam Results", Headers: []string{"Date", "Subject", "Exam Type", "Test", "Marks", "Total"}}
	for _, exam := range report.Exams {
		exams.Rows = append(exams.Rows, map[string]string{
			"Date":      exam.Date,
			"Subject":   exam.SubjectPaper,
			"Exam Type": exam.ExamType,
			"Test":      exam.TypeOfTest,
			"Marks":     formatAmount(exam.StudentMark),
			"Total":     formatAmount(exam.TotalMark),
		})
	}

	examStats := export.Dataset{
		Title:   "Exam Summary",
		Headers: []string{"Metric", "Value"},
		Rows: fieldRows("Metric",
			"Exams", strconv.Itoa(report.ExamStats.Exams),
			"Marks obtained", strconv.FormatFloat(report.ExamStats.ObtainedMarks, 'f', -1, 64),
			"Total marks", strconv.FormatFloat(report.ExamStats.TotalMarks, 'f', -1, 64),
			"Percentage", formatPercent(report.ExamStats.Percentage),
		),
	}

	return export.Document{
		Title:    "Student Report",
		Subtitle: subtitle,
		Sections: []export.Dataset{student, attendanceStats, daily, exams, examStats},
	}
}

// fieldRows turns alternating label/value pairs into rows keyed by labelHeader and "Value".
func fieldRows(labelHeader string, pairs ...string) []map[string]string {
	rows := make([]map[string]string, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		rows = append(rows, map[string]string{labelHeader: pairs[i], "Value": pairs[i+1]})
	}
	return rows
}

func formatAmount(n models.Number) string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

func normaliseList(raw json.RawMessage) json.RawMessage {
	if isNullPayload(raw) {
		return json.RawMessage("[]")
	}
	return raw
}
