package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/campuskit/campus-records-api/internal/models"
	appErrors "github.com/campuskit/campus-records-api/pkg/errors"
	"github.com/campuskit/campus-records-api/pkg/export"
)

type auditReader interface {
	List(ctx context.Context) ([]models.AuditEntry, error)
}

type enrollmentLister interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.Enrollment, error)
}

// Export formats supported by the report endpoints.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

// Report bundles rendered bytes with serving metadata.
type Report struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ReportService renders the audit trail and enrollment ledger as downloads.
type ReportService struct {
	audit       auditReader
	enrollments enrollmentLister
	logger      *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(audit auditReader, enrollments enrollmentLister, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{audit: audit, enrollments: enrollments, logger: logger}
}

// ExportAudit renders the full audit trail in the requested format.
func (s *ReportService) ExportAudit(ctx context.Context, format string) (*Report, error) {
	entries, err := s.audit.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load audit trail")
	}
	data := export.Dataset{
		Headers: []string{"Timestamp", "Action", "Actor", "Details"},
		Rows:    make([]map[string]string, len(entries)),
	}
	for i, entry := range entries {
		data.Rows[i] = map[string]string{
			"Timestamp": entry.TS.Format("2006-01-02 15:04:05"),
			"Action":    entry.Action,
			"Actor":     entry.Actor,
			"Details":   formatDetails(entry.Details),
		}
	}
	return s.render(data, format, "audit-trail", "Audit Trail")
}

// ExportEnrollments renders the enrollment ledger in the requested format,
// optionally scoped to one teacher.
func (s *ReportService) ExportEnrollments(ctx context.Context, teacherIdentifier, format string) (*Report, error) {
	enrollments, err := s.enrollments.List(ctx, models.EnrollmentFilter{TeacherIdentifier: teacherIdentifier})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollments")
	}
	data := export.Dataset{
		Headers: []string{"Student", "Subject", "Teacher", "Status", "Requested At"},
		Rows:    make([]map[string]string, len(enrollments)),
	}
	for i, e := range enrollments {
		data.Rows[i] = map[string]string{
			"Student":      fmt.Sprintf("%s (%s)", e.StudentName, e.StudentIdentifier),
			"Subject":      e.SubjectName,
			"Teacher":      e.TeacherName,
			"Status":       string(e.Status),
			"Requested At": e.RequestedAt.Format("2006-01-02 15:04:05"),
		}
	}
	return s.render(data, format, "enrollments", "Enrollment Ledger")
}

func (s *ReportService) render(data export.Dataset, format, name, title string) (*Report, error) {
	switch strings.ToLower(format) {
	case FormatCSV, "":
		content, err := export.CSV(data)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &Report{Content: content, ContentType: "text/csv", Filename: name + ".csv"}, nil
	case FormatPDF:
		content, err := export.PDF(data, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &Report{Content: content, ContentType: "application/pdf", Filename: name + ".pdf"}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}

func formatDetails(details map[string]any) string {
	if len(details) == 0 {
		return ""
	}
	parts := make([]string, 0, len(details))
	for key, value := range details {
		parts = append(parts, fmt.Sprintf("%s=%v", key, value))
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}
