package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/inovasi-informatika/spp-admin/internal/logger"
	"github.com/inovasi-informatika/spp-admin/internal/repository"
	"github.com/inovasi-informatika/spp-admin/internal/service"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	APIURL  string
	Timeout time.Duration
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for sppctl. defaultAPIURL is used
// when --api-url is not given.
func NewRootCommand(defaultAPIURL string) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sppctl",
		Short: "sppctl - administrasi Mahasiswa dan SPP",
		Long:  "Command-line access to the Mahasiswa and SPP records API: list, register and deactivate students, quote and record tuition payments.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			if strings.TrimSpace(opts.APIURL) == "" {
				return fmt.Errorf("--api-url must not be empty")
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log API traffic to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.APIURL, "api-url", defaultAPIURL, "records API base URL")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "records API request timeout")

	// Add subcommands
	cmd.AddCommand(NewStudentsCommand(opts))
	cmd.AddCommand(NewSPPCommand(opts))

	return cmd
}

// Execute runs cmd and returns the process exit code. Errors the command has
// not already reported are printed to stderr.
func Execute(cmd *cobra.Command) int {
	err := cmd.Execute()
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || !exitErr.reported {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err)
	}
	return GetExitCode(err)
}

// services wires the records API client for one command invocation.
func (o *RootOptions) services(cmd *cobra.Command) (*service.StudentService, *service.PaymentService) {
	level := "warn"
	if o.Verbose {
		level = "debug"
	}
	log := logger.New(cmd.ErrOrStderr(), level, "auto")

	client := repository.NewClient(strings.TrimRight(o.APIURL, "/"), o.Timeout, log)
	studentRepo := repository.NewStudentRepository(client)
	paymentRepo := repository.NewPaymentRepository(client)

	return service.NewStudentService(studentRepo, log),
		service.NewPaymentService(paymentRepo, studentRepo, log)
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
