package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/inovasi-informatika/spp-admin/internal/handler"
	"github.com/inovasi-informatika/spp-admin/internal/model"
	"github.com/inovasi-informatika/spp-admin/internal/view"
	"github.com/spf13/cobra"
)

// NewSPPCommand creates the spp command group.
func NewSPPCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spp",
		Short: "Quote and record tuition (SPP) payments",
	}

	cmd.AddCommand(newSPPListCommand(rootOpts))
	cmd.AddCommand(newSPPQuoteCommand(rootOpts))
	cmd.AddCommand(newSPPAddCommand(rootOpts))

	return cmd
}

func newSPPListCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List recorded payments",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			_, payments := rootOpts.services(cmd)

			records, err := payments.List(cmd.Context())
			if err != nil {
				return f.Fail(err)
			}

			return f.Success(map[string]any{"payments": records, "count": len(records)}, func(w io.Writer) error {
				return writePaymentTable(w, records)
			})
		},
	}
}

func writePaymentTable(w io.Writer, payments []model.Payment) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NO\tNIM\tNAMA\tPRODI\tSEMESTER\tJUMLAH")
	for i, p := range payments {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\t%s\n", i+1, p.NIM, p.Nama, p.Prodi, p.Semester, view.Rupiah(p.Jumlah))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Menampilkan %d Transaksi SPP\n", len(payments))
	return err
}

func newSPPQuoteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "quote <nim>",
		Short:         "Show the amount an active student would be charged",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			_, payments := rootOpts.services(cmd)

			quote, err := payments.Quote(cmd.Context(), args[0])
			if err != nil {
				return f.Fail(err)
			}

			return f.Success(map[string]any{"quote": quote}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "NIM:        %s\nNama:       %s\nProdi:      %s\nBeasiswa:   %s\nJumlah SPP: %s\n",
					quote.Student.NIM, quote.Student.Nama, quote.Student.Prodi.LongName(),
					quote.BeasiswaLabel, view.Rupiah(quote.Jumlah))
				return err
			})
		},
	}
}

func newSPPAddCommand(rootOpts *RootOptions) *cobra.Command {
	var nim, semester string

	cmd := &cobra.Command{
		Use:           "add",
		Short:         "Record a payment; the amount follows the student's scholarship tier",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			_, payments := rootOpts.services(cmd)

			req, err := payments.Create(cmd.Context(), model.CreatePaymentForm{NIM: nim, Semester: model.FlexString(semester)})
			if err != nil {
				return f.Fail(err)
			}

			return f.Success(map[string]any{"payment": req, "message": handler.MsgPaymentCreated}, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "%s\nNIM %s, semester %d, %s\n", handler.MsgPaymentCreated, req.NIM, req.Semester, view.Rupiah(req.Jumlah))
				return err
			})
		},
	}

	cmd.Flags().StringVar(&nim, "nim", "", "student number")
	cmd.Flags().StringVar(&semester, "semester", "", "semester (1-14)")
	return cmd
}
