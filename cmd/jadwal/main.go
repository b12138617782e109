// Package main provides the CLI entrypoint for jadwal.
package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/jadwal/internal/adminui"
	"github.com/verte-zerg/jadwal/internal/api"
	"github.com/verte-zerg/jadwal/internal/app"
	"github.com/verte-zerg/jadwal/internal/backup"
	"github.com/verte-zerg/jadwal/internal/blokui"
	"github.com/verte-zerg/jadwal/internal/config"
	"github.com/verte-zerg/jadwal/internal/metrics"
	"github.com/verte-zerg/jadwal/internal/model"
	"github.com/verte-zerg/jadwal/internal/report"
	"github.com/verte-zerg/jadwal/internal/schedule"
	"github.com/verte-zerg/jadwal/internal/stats"
)

const defaultHistoryLimit = 20

var (
	rootAPIURL    string
	rootLogLevel  string
	rootLogFormat string
	rootBackupDir string

	loginUser string

	adminAutoStart bool
	dashboardPlain bool

	backupType    string
	backupOut     string
	backupHistory bool

	importType string

	resetConfirm string

	exportOut string

	listKind string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		logErrf("Error: %s\n", api.Describe(err))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "jadwal",
		Short:         "Terminal client for the academic scheduling system",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&rootAPIURL, "api-url", config.DefaultAPIURL, "backend API base URL")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&rootLogFormat, "log-format", config.DefaultLogFormat, "log format (json or console)")
	rootCmd.PersistentFlags().StringVar(&rootBackupDir, "backup-dir", "", "directory for backups and exports")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newBlokCmd())
	rootCmd.AddCommand(newAdminCmd())
	rootCmd.AddCommand(newDashboardCmd())
	rootCmd.AddCommand(newBackupCmd())
	rootCmd.AddCommand(newImportCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newJadwalCmd())
	rootCmd.AddCommand(newEndTimeCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

// loadConfig resolves defaults, the config file, .env and the environment,
// then lets explicitly set flags win.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	if err := config.LoadDotEnv(""); err != nil {
		return config.Config{}, err
	}
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg, err := config.Resolve(fileCfg)
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	applyStringFlag(cmd, "api-url", &cfg.APIURL, rootAPIURL)
	applyStringFlag(cmd, "log-level", &cfg.LogLevel, rootLogLevel)
	applyStringFlag(cmd, "log-format", &cfg.LogFormat, rootLogFormat)
	applyStringFlag(cmd, "backup-dir", &cfg.BackupDir, rootBackupDir)
	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func openApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	a, err := app.Open(commandContext(cmd), cfg)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func closeApp(a *app.App) {
	if err := a.Close(); err != nil {
		logErrf("failed to close db: %v\n", err)
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Args:  cobra.NoArgs,
		RunE:  runLoginCmd,
	}
	cmd.Flags().StringVarP(&loginUser, "user", "u", "", "username, email or NID")
	return cmd
}

func runLoginCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)

	reader := bufio.NewReader(cmd.InOrStdin())
	login := strings.TrimSpace(loginUser)
	if login == "" {
		login, err = prompt(reader, cmd.ErrOrStderr(), "Login: ")
		if err != nil {
			return err
		}
	}
	if login == "" {
		return fmt.Errorf("login must not be empty")
	}
	password, err := readPassword(reader, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	user, err := a.SignIn(commandContext(cmd), login, password)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Masuk sebagai %s (%s)\n", user.Name, user.Role)
	return err
}

func prompt(reader *bufio.Reader, w io.Writer, label string) (string, error) {
	if _, err := fmt.Fprint(w, label); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword hides input on a terminal and falls back to a plain line otherwise.
func readPassword(reader *bufio.Reader, w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return prompt(reader, w, "Password: ")
	}
	if _, err := fmt.Fprint(w, "Password: "); err != nil {
		return "", fmt.Errorf("failed to write prompt: %w", err)
	}
	raw, err := term.ReadPassword(fd)
	_, _ = fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke and forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a)
			if _, err := a.RequireUser(); err != nil {
				return err
			}
			if err := a.SignOut(commandContext(cmd)); err != nil {
				logErrf("server logout failed, local session cleared: %s\n", api.Describe(err))
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Sesi dihapus")
			return err
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer closeApp(a)
			user, err := a.RequireUser()
			if err != nil {
				return err
			}
			lines := report.FormatTable([]string{"Field", "Nilai"}, [][]string{
				{"Nama", user.Name},
				{"Username", user.Username},
				{"Email", orDash(user.Email)},
				{"Role", user.Role},
				{"API", a.Config.APIURL},
			}, nil)
			return writeLines(cmd.OutOrStdout(), lines)
		},
	}
}

func newBlokCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "blok <kode>",
		Short: "Open the course block schedule screen",
		Args:  cobra.ExactArgs(1),
		RunE:  runBlokCmd,
	}
}

func runBlokCmd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)
	if _, err := a.RequireUser(); err != nil {
		return err
	}

	screen := blokui.NewModel(a.Client, strings.TrimSpace(args[0]), a.Logger.Named("blokui"))
	program := tea.NewProgram(screen, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	if err := screen.Err(); err != nil {
		a.Expire(err)
		return err
	}
	return nil
}

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Open the super-admin console",
		Args:  cobra.NoArgs,
		RunE:  runAdminCmd,
	}
	cmd.Flags().BoolVar(&adminAutoStart, "monitor", false, "start monitoring when the console opens")
	return cmd
}

func runAdminCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)
	if _, err := a.RequireSuperAdmin(); err != nil {
		return err
	}

	monitor := metrics.NewMonitor(metrics.NewSampler(), metrics.DefaultCapacity, metrics.WithPeriod(a.Config.Tick))
	defer monitor.Close()

	console := adminui.NewModel(a.Client, adminui.Options{
		BackupDir: a.Config.BackupDir,
		Recorder:  a.Store,
		Monitor:   monitor,
		Logger:    a.Logger.Named("adminui"),
		AutoStart: adminAutoStart,
	})
	defer console.Close()
	program := tea.NewProgram(console, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run admin TUI: %w", err)
	}
	if err := console.Err(); err != nil {
		a.Expire(err)
		return err
	}
	return nil
}

func newDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the system summary",
		Args:  cobra.NoArgs,
		RunE:  runDashboardCmd,
	}
	cmd.Flags().BoolVar(&dashboardPlain, "plain", false, "print a plain-text summary instead of opening the console")
	return cmd
}

func runDashboardCmd(cmd *cobra.Command, args []string) error {
	if !dashboardPlain {
		return runAdminCmd(cmd, args)
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)
	if _, err := a.RequireSuperAdmin(); err != nil {
		return err
	}
	raw, err := a.Client.Dashboard(commandContext(cmd))
	if err != nil {
		a.Expire(err)
		return err
	}
	return stats.RenderSummary(cmd.OutOrStdout(), stats.Normalize(raw))
}

func newBackupCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Download a database backup",
		Args:  cobra.NoArgs,
		RunE:  runBackupCmd,
	}
	cmd.Flags().StringVar(&backupType, "type", string(backup.KindFull), "backup type (full, data_only, structure_only)")
	cmd.Flags().StringVar(&backupOut, "out", "", "output directory (default: backup dir from config)")
	cmd.Flags().BoolVar(&backupHistory, "history", false, "list locally downloaded backups")
	return cmd
}

func runBackupCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)
	ctx := commandContext(cmd)

	if backupHistory {
		return printBackupHistory(ctx, cmd.OutOrStdout(), a)
	}
	if _, err := a.RequireSuperAdmin(); err != nil {
		return err
	}
	kind, err := backup.ParseKind(backupType)
	if err != nil {
		return err
	}
	dir := a.Config.BackupDir
	if backupOut != "" {
		dir = backupOut
	}

	download, err := a.Client.Backup(ctx, kind)
	if err != nil {
		a.Expire(err)
		return err
	}
	path, err := backup.Save(dir, download.Filename, download.Data)
	if err != nil {
		return err
	}
	rec := model.BackupRecord{Kind: string(kind), Path: path, SizeBytes: int64(len(download.Data))}
	if _, err := a.Store.RecordBackup(ctx, rec); err != nil {
		logErrf("failed to record backup: %v\n", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Backup %s tersimpan di %s (%d byte)\n", kind.Label(), path, rec.SizeBytes)
	return err
}

func printBackupHistory(ctx context.Context, w io.Writer, a *app.App) error {
	records, err := a.Store.ListBackups(ctx, defaultHistoryLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "Belum ada riwayat backup")
		return err
	}
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, []string{
			formatStamp(rec.CreatedAt),
			backup.Kind(rec.Kind).Label(),
			strconv.FormatInt(rec.SizeBytes, 10),
			rec.Path,
		})
	}
	lines := report.FormatTable([]string{"Waktu", "Tipe", "Byte", "File"}, rows, map[int]bool{2: true})
	return writeLines(w, lines)
}

func formatStamp(value string) string {
	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return value
	}
	return t.Local().Format("2006-01-02 15:04")
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Restore a backup file",
		Args:  cobra.ExactArgs(1),
		RunE:  runImportCmd,
	}
	cmd.Flags().StringVar(&importType, "type", string(backup.KindFull), "backup type (full, data_only, structure_only)")
	return cmd
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	kind, err := backup.ParseKind(importType)
	if err != nil {
		return err
	}
	path := args[0]
	if warning, ok := backup.MismatchWarning(filepath.Base(path), kind); ok {
		logErrf("%s\n\n", warning)
	}

	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)
	if _, err := a.RequireSuperAdmin(); err != nil {
		return err
	}

	result, err := a.Client.Import(commandContext(cmd), path, kind)
	if err != nil {
		a.Expire(err)
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), backup.DescribeRestore(result)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if !result.Success {
		return fmt.Errorf("import failed")
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset all academic data",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().StringVar(&resetConfirm, "confirm", "", fmt.Sprintf("type %q to confirm", backup.ResetConfirmPhrase))
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if !backup.ResetConfirmed(resetConfirm) {
		return fmt.Errorf("reset requires --confirm %s", backup.ResetConfirmPhrase)
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)
	if _, err := a.RequireSuperAdmin(); err != nil {
		return err
	}
	if err := a.Client.Reset(commandContext(cmd), resetConfirm); err != nil {
		a.Expire(err)
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), "Reset sistem berhasil")
	return err
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all reports to an XLSX workbook",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportOut, "out", "", "output file (default: laporan_<date>.xlsx in the backup dir)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)
	if _, err := a.RequireSuperAdmin(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := report.Export(commandContext(cmd), a.Client, report.Kinds, &buf); err != nil {
		a.Expire(err)
		a.Logger.Warn("export failed", zap.Error(report.Cause(err)))
		return err
	}
	var path string
	if exportOut != "" {
		if err := os.MkdirAll(filepath.Dir(exportOut), 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := os.WriteFile(exportOut, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		path = exportOut
	} else {
		name := fmt.Sprintf("laporan_%s.xlsx", time.Now().Format("2006-01-02"))
		path, err = backup.Save(a.Config.BackupDir, name, buf.Bytes())
		if err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Laporan tersimpan di %s\n", path)
	return err
}

func newJadwalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jadwal",
		Short: "Schedule commands",
	}
	list := &cobra.Command{
		Use:   "list <kode>",
		Short: "List schedule rows of a course block",
		Args:  cobra.ExactArgs(1),
		RunE:  runJadwalListCmd,
	}
	list.Flags().StringVar(&listKind, "kind", schedule.KindLecture.Slug(), "schedule kind (kuliah-besar, agenda-khusus, praktikum, pbl, jurnal-reading)")
	cmd.AddCommand(list)
	return cmd
}

func runJadwalListCmd(cmd *cobra.Command, args []string) error {
	kind, err := schedule.ParseKind(listKind)
	if err != nil {
		return err
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer closeApp(a)
	if _, err := a.RequireUser(); err != nil {
		return err
	}

	data, err := a.Client.BatchData(commandContext(cmd), strings.TrimSpace(args[0]))
	if err != nil {
		a.Expire(err)
		return err
	}
	rows := schedule.Rows(data, kind)
	if len(rows) == 0 {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "Belum ada jadwal %s\n", kind.Title())
		return err
	}
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells = append(cells, []string{
			strconv.FormatInt(row.ID, 10),
			row.Tanggal,
			row.JamMulai + "-" + row.JamSelesai,
			strconv.Itoa(row.JumlahSesi),
			rowSubject(row),
		})
	}
	lines := report.FormatTable([]string{"ID", "Tanggal", "Waktu", "Sesi", "Materi"}, cells, map[int]bool{0: true, 3: true})
	return writeLines(cmd.OutOrStdout(), lines)
}

func rowSubject(row model.ScheduleRow) string {
	for _, v := range []string{row.Materi, row.Topik, row.Agenda, row.PBLTipe} {
		if v != "" {
			return v
		}
	}
	return "-"
}

func newEndTimeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "endtime <start> <sessions>",
		Short: "Compute the end time of a slot (50 minutes per session)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid sessions %q: %w", args[1], err)
			}
			end, err := schedule.EndTime(args[0], sessions)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), end)
			return err
		},
	}
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringFlag(cmd *cobra.Command, name string, target *string, value string) {
	if !cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# jadwal configuration
# Uncomment a value to enable it. Environment variables (JADWAL_*) override
# the file and CLI flags override both.

[api]
# url = %q
# timeout = %d            # Request timeout in seconds

[log]
# level = %q              # debug, info, warn, error
# format = %q             # json or console
# path = %q

[backup]
# dir = %q

[monitor]
# tick = %d               # Sampling interval in seconds
`,
		config.DefaultAPIURL,
		int(config.DefaultTimeout/time.Second),
		config.DefaultLogLevel,
		config.DefaultLogFormat,
		config.DefaultLogPath(),
		config.DefaultBackupDir(),
		config.DefaultTickSeconds,
	)
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func orDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
