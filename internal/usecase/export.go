package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"mecahub-backend/internal/domain"
	"mecahub-backend/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

type exportUsecase struct {
	contacts domain.ContactRepository
	jobs     domain.JobApplicationRepository
}

// NewExportUsecase creates the spreadsheet export of persisted leads
func NewExportUsecase(contacts domain.ContactRepository, jobs domain.JobApplicationRepository) domain.ExportUsecase {
	return &exportUsecase{contacts: contacts, jobs: jobs}
}

var (
	contactColumns = []string{"ID", "DATE", "ENTREPRISE", "CONTACT", "EMAIL", "TÉLÉPHONE", "TYPE DE DEMANDE", "URGENCE", "DÉTAILS", "FICHIER"}
	jobColumns     = []string{"ID", "DATE", "NOM", "EMAIL", "TÉLÉPHONE", "STATUT", "POSTES", "COMPÉTENCES", "LOGICIELS", "EXPÉRIENCE", "DISPONIBILITÉ", "MESSAGE", "CV"}
)

// Export writes the rows of table created since the given time as an xlsx
// workbook and returns the number of data rows.
func (u *exportUsecase) Export(ctx context.Context, table string, since time.Time, w io.Writer) (int, error) {
	var (
		sheet   string
		columns []string
		rows    [][]any
	)

	switch table {
	case domain.TableContactRequests:
		records, err := u.contacts.ListSince(ctx, since)
		if err != nil {
			return 0, err
		}
		sheet, columns = "Contacts", contactColumns
		for _, r := range records {
			rows = append(rows, []any{
				r.ID, r.CreatedAt.Format(time.DateTime), r.Company, r.Name, r.Email, r.Phone,
				r.RequestType, r.Urgency, r.Details, deref(r.FileURL),
			})
		}
	case domain.TableJobApplications:
		records, err := u.jobs.ListSince(ctx, since)
		if err != nil {
			return 0, err
		}
		sheet, columns = "Candidatures", jobColumns
		for _, r := range records {
			rows = append(rows, []any{
				r.ID, r.CreatedAt.Format(time.DateTime), r.FullName, r.Email, r.Phone, r.Status,
				strings.Join(r.Positions, ", "), strings.Join(r.Skills, ", "),
				strings.Join(r.Software, ", "), strings.Join(r.Experience, ", "),
				r.Availability, deref(r.Message), deref(r.CVURL),
			})
		}
	default:
		return 0, apperror.BadRequest(fmt.Sprintf("unsupported table: %s", table))
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return 0, err
	}

	header := make([]any, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return 0, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(columns), 1)
	_ = f.SetCellStyle(sheet, "A1", endCell, headerStyle)

	for i := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return 0, err
		}
	}

	lastCol, _ := excelize.ColumnNumberToName(len(columns))
	_ = f.SetColWidth(sheet, "A", lastCol, 20)

	if err := f.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return len(rows), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
