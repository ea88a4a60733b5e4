package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/inovasi-informatika/spp-admin/internal/handler"
	"github.com/inovasi-informatika/spp-admin/internal/model"
	"github.com/inovasi-informatika/spp-admin/internal/response"
	"github.com/spf13/cobra"
)

// NewStudentsCommand creates the students command group.
func NewStudentsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "students",
		Aliases: []string{"mahasiswa"},
		Short:   "Manage Mahasiswa records",
	}

	cmd.AddCommand(newStudentsListCommand(rootOpts))
	cmd.AddCommand(newStudentsAddCommand(rootOpts))
	cmd.AddCommand(newStudentsDeactivateCommand(rootOpts))
	cmd.AddCommand(newStudentsImportCommand(rootOpts))

	return cmd
}

func newStudentsListCommand(rootOpts *RootOptions) *cobra.Command {
	var activeOnly bool

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List students",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			students, _ := rootOpts.services(cmd)

			list := students.List
			if activeOnly {
				list = students.ListActive
			}
			records, err := list(cmd.Context())
			if err != nil {
				return f.Fail(err)
			}

			return f.Success(map[string]any{"students": records, "count": len(records)}, func(w io.Writer) error {
				return writeStudentTable(w, records)
			})
		},
	}

	cmd.Flags().BoolVar(&activeOnly, "active", false, "only students that can still be billed")
	return cmd
}

func writeStudentTable(w io.Writer, students []model.Student) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NO\tNIM\tNAMA\tPRODI\tBEASISWA\tSTATUS")
	for i, s := range students {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1, s.NIM, s.Nama, s.Prodi, s.Beasiswa.Label(), s.Status.Label())
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Menampilkan %d Mahasiswa\n", len(students))
	return err
}

func newStudentsAddCommand(rootOpts *RootOptions) *cobra.Command {
	var req model.CreateStudentRequest
	var prodi, beasiswa string

	cmd := &cobra.Command{
		Use:           "add",
		Short:         "Register a new, active student",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			students, _ := rootOpts.services(cmd)

			req.Prodi = model.Prodi(strings.ToUpper(strings.TrimSpace(prodi)))
			req.Beasiswa = model.Beasiswa(strings.TrimSpace(beasiswa))

			student, err := students.Create(cmd.Context(), req)
			if err != nil {
				return f.Fail(err)
			}

			return f.Success(map[string]any{"student": student, "message": handler.MsgStudentCreated}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, handler.MsgStudentCreated)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&req.NIM, "nim", "", "student number")
	cmd.Flags().StringVar(&req.Nama, "nama", "", "full name")
	cmd.Flags().StringVar(&prodi, "prodi", "", "study program (MI|MK|TPM)")
	cmd.Flags().StringVar(&beasiswa, "beasiswa", "", "scholarship tier (1=full, 2=partial, 3=none)")
	return cmd
}

func newStudentsDeactivateCommand(rootOpts *RootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:           "deactivate <nim>",
		Short:         "Deactivate a student (cannot be undone)",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			nim := args[0]

			if !yes {
				if !isInteractive() {
					return f.Refuse(response.ErrConfirmationRequired, "gunakan --yes untuk menonaktifkan tanpa konfirmasi interaktif")
				}
				question := fmt.Sprintf("Apakah Anda yakin ingin menonaktifkan mahasiswa %s?", nim)
				if !confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), question) {
					return errNotConfirmed
				}
			}

			students, _ := rootOpts.services(cmd)
			if err := students.Deactivate(cmd.Context(), nim); err != nil {
				return f.Fail(err)
			}

			return f.Success(map[string]any{"mhs_nim": nim, "mhs_status": model.StatusInactive, "message": handler.MsgStudentDeactivated}, func(w io.Writer) error {
				_, err := fmt.Fprintln(w, handler.MsgStudentDeactivated)
				return err
			})
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

// importResult reports one CSV row.
type importResult struct {
	Line    int    `json:"line"`
	NIM     string `json:"mhs_nim"`
	Created bool   `json:"created"`
	Error   string `json:"error,omitempty"`
}

func newStudentsImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Register students from a CSV file",
		Long: `Register students from a CSV file with the columns nim,nama,prodi,beasiswa.
A header row starting with "nim" is skipped. Rows are created one by one;
a rejected row is reported and the import continues.`,
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)

			file, err := os.Open(args[0])
			if err != nil {
				return &ExitError{Code: ExitCommandError, Message: "cannot open CSV", Err: err}
			}
			defer file.Close()

			rows, err := readStudentCSV(file)
			if err != nil {
				return &ExitError{Code: ExitCommandError, Message: "cannot read CSV", Err: err}
			}

			students, _ := rootOpts.services(cmd)
			results := make([]importResult, 0, len(rows))
			failed := 0
			for _, row := range rows {
				res := importResult{Line: row.line, NIM: row.req.NIM}
				if _, err := students.Create(cmd.Context(), row.req); err != nil {
					_, _, message := handler.Classify(err)
					if message == "" {
						message = err.Error()
					}
					res.Error = message
					failed++
				} else {
					res.Created = true
				}
				results = append(results, res)
			}

			out := f.Success(map[string]any{"results": results, "created": len(rows) - failed, "failed": failed}, func(w io.Writer) error {
				for _, r := range results {
					if r.Created {
						fmt.Fprintf(w, "baris %d: %s dibuat\n", r.Line, r.NIM)
					} else {
						fmt.Fprintf(w, "baris %d: %s gagal: %s\n", r.Line, r.NIM, r.Error)
					}
				}
				_, err := fmt.Fprintf(w, "%d dibuat, %d gagal\n", len(rows)-failed, failed)
				return err
			})
			if out != nil {
				return out
			}
			if failed > 0 {
				return &ExitError{Code: ExitFailure, Message: fmt.Sprintf("%d baris gagal", failed), reported: true}
			}
			return nil
		},
	}
	return cmd
}

type csvStudent struct {
	line int
	req  model.CreateStudentRequest
}

func readStudentCSV(r io.Reader) ([]csvStudent, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 4
	reader.TrimLeadingSpace = true

	var rows []csvStudent
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return nil, err
		}
		if line == 1 && strings.EqualFold(strings.TrimSpace(record[0]), "nim") {
			continue
		}
		rows = append(rows, csvStudent{
			line: line,
			req: model.CreateStudentRequest{
				NIM:      strings.TrimSpace(record[0]),
				Nama:     strings.TrimSpace(record[1]),
				Prodi:    model.Prodi(strings.ToUpper(strings.TrimSpace(record[2]))),
				Beasiswa: model.Beasiswa(strings.TrimSpace(record[3])),
			},
		})
	}
}
