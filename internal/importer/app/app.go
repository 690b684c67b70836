package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"text/tabwriter"
	"time"

	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/adapter/outbound/journal"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/adapter/outbound/progress_store"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/adapter/outbound/remote_api"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/adapter/outbound/source_reader"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/adapter/outbound/stats_mirror"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/config"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/domain"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/port"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/importer/service"
	"github.com/anthanhphan/go-csv-import-pipeline/internal/stubremote"
	"github.com/anthanhphan/go-csv-import-pipeline/pkg/idgen"
	"github.com/anthanhphan/gosdk/logger"
	"github.com/redis/go-redis/v9"
)

// ErrUsage marks errors caused by bad flags, config or dataset names.
var ErrUsage = errors.New("usage error")

type App struct {
	cfg       *config.Config
	datasets  *config.Datasets
	store     *progress_store.FileStore
	remote    port.RecordStore
	publisher port.StatsPublisher
	ids       *idgen.Snowflake
	redis     *redis.Client
	out       io.Writer

	httpClient *http.Client
}

type Option func(*App)

// WithHTTPClient replaces the client used to reach the record API.
func WithHTTPClient(c *http.Client) Option {
	return func(a *App) {
		a.httpClient = c
	}
}

// WithOutput redirects reports and status output, stdout by default.
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.out = w
	}
}

func New(configPath string, opts ...Option) (*App, error) {
	// 1. Load Config
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}

	// 2. Initialize Logger
	logger.InitLogger(&cfg.Logger)

	return NewWithConfig(cfg, opts...)
}

// NewWithConfig wires the application from an already loaded config.
func NewWithConfig(cfg *config.Config, opts ...Option) (*App, error) {
	a := &App{cfg: cfg, out: os.Stdout}
	for _, opt := range opts {
		opt(a)
	}

	// 3. Datasets
	datasets, err := config.LoadDatasets(cfg.App.DatasetsFile)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	a.datasets = datasets

	// 4. Redis stats mirror and run-id clock (optional)
	var clock idgen.Clock = idgen.SystemClock{}
	a.publisher = stats_mirror.Noop{}
	if cfg.Redis.Addr != "" {
		a.redis = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		a.publisher = stats_mirror.NewRedisMirror(a.redis, cfg.Redis.KeyPrefix)
		clock = idgen.NewRedisClock(a.redis, time.Second)
	}

	a.ids, err = idgen.New(cfg.App.NodeID, clock)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to init snowflake: %v", ErrUsage, err)
	}

	// 5. Adapters
	a.store, err = progress_store.NewFileStore(cfg.State.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to init state store: %w", err)
	}
	a.remote = remote_api.NewClient(cfg.Remote.BaseURL, a.httpClient, cfg.Remote.Timeout())

	return a, nil
}

// Close releases the redis connection if one was opened.
func (a *App) Close() error {
	if a.redis != nil {
		return a.redis.Close()
	}
	return nil
}

type RunOptions struct {
	Dataset   string
	Resume    bool
	BatchSize int // 0 keeps pacing.batch_size
}

// Run imports every pending file of a dataset and writes the final report.
func (a *App) Run(ctx context.Context, opts RunOptions) (*service.Report, error) {
	ds, err := a.dataset(opts.Dataset)
	if err != nil {
		return nil, err
	}
	if opts.BatchSize < 0 {
		return nil, fmt.Errorf("%w: --batch-size must be positive", ErrUsage)
	}

	cfg := *a.cfg
	if opts.BatchSize > 0 {
		cfg.Pacing.BatchSize = opts.BatchSize
	}

	files, err := service.DiscoverFiles(ds)
	if err != nil {
		return nil, err
	}

	jr, err := journal.Open(cfg.State.Dir, ds.Name)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrLocalIO, err)
	}
	defer func() {
		if err := jr.Close(); err != nil {
			logger.Warnw("Failed to close journal", "path", journal.Path(cfg.State.Dir, ds.Name), "error", err.Error())
		}
	}()

	runID, err := a.ids.NextRunID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate run id: %w", err)
	}

	token, err := a.remote.Login(ctx, cfg.Remote.Username, cfg.Remote.Password)
	if err != nil {
		logger.Errorw("Login failed", "dataset", ds.Name, "error", err.Error())
		jr.Record(port.LevelError, "Login failed", "run_id", runID, "error", err.Error())
		return nil, err
	}

	tracker := service.NewProgressTracker(ds.Name, a.store, a.publisher, jr)
	orchestrator := service.NewOrchestrator(&cfg, a.remote, source_reader.NewReader(ds.Encoding), tracker, jr)

	report, err := orchestrator.Run(ctx, service.RunContext{
		RunID:   runID,
		Dataset: ds,
		Token:   token,
		Resume:  opts.Resume,
	}, files)
	if report != nil {
		if rerr := report.Render(a.out); rerr != nil {
			logger.Warnw("Failed to write report", "error", rerr.Error())
		}
		logger.Infow("Journal written", "path", journal.Path(cfg.State.Dir, ds.Name))
	}
	return report, err
}

// Status prints the recorded progress of a dataset without touching the remote.
func (a *App) Status(dataset string) error {
	ds, err := a.dataset(dataset)
	if err != nil {
		return err
	}

	progress, found, err := a.store.LoadProgress(ds.Name)
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(a.out, "Dataset %s has no recorded progress\n", ds.Name)
		return nil
	}

	var startTime time.Time
	var endTime *time.Time
	totalFiles := progress.CurrentIndex
	if st, ok, err := a.store.LoadStats(ds.Name); err == nil && ok {
		startTime = st.StartTime
		endTime = st.EndTime
		totalFiles = max(totalFiles, st.TotalFiles)
	}

	next := "-"
	if files, err := service.DiscoverFiles(ds); err == nil {
		totalFiles = len(files)
		if progress.CurrentIndex < len(files) {
			next = files[progress.CurrentIndex].Filename
		}
	} else {
		logger.Warnw("Source directory not readable, using recorded totals", "dataset", ds.Name, "error", err.Error())
	}

	stats := domain.DeriveStats(progress, totalFiles, startTime, time.Now())

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Dataset:\t%s\n", ds.Name)
	if progress.RunID != "" {
		if started, err := idgen.ParseRunID(progress.RunID); err == nil {
			fmt.Fprintf(tw, "Last run:\t%s (started %s)\n", progress.RunID, started.Format(time.RFC3339))
		} else {
			fmt.Fprintf(tw, "Last run:\t%s\n", progress.RunID)
		}
	}
	fmt.Fprintf(tw, "Progress:\t%d/%d\n", stats.ProcessedFiles, stats.TotalFiles)
	fmt.Fprintf(tw, "Next file:\t%s\n", next)
	fmt.Fprintf(tw, "Success:\t%d\n", stats.SuccessFiles)
	fmt.Fprintf(tw, "Partial:\t%d\n", stats.PartialFiles)
	fmt.Fprintf(tw, "Unreadable:\t%d\n", stats.ReadFailedFiles)
	fmt.Fprintf(tw, "Skipped:\t%d\n", stats.SkippedFiles)
	fmt.Fprintf(tw, "Records imported:\t%d\n", stats.ImportedRecords)
	fmt.Fprintf(tw, "Duplicates removed:\t%d\n", stats.DuplicatesRemoved)
	if endTime != nil {
		fmt.Fprintf(tw, "Finished at:\t%s\n", endTime.Format(time.RFC3339))
	} else if stats.EstimatedSecondsRemaining > 0 {
		eta := time.Duration(stats.EstimatedSecondsRemaining * float64(time.Second))
		fmt.Fprintf(tw, "Estimated remaining:\t%s\n", eta.Round(time.Second))
	}
	fmt.Fprintf(tw, "Updated:\t%s\n", progress.Timestamp.Format(time.RFC3339))
	if err := tw.Flush(); err != nil {
		return err
	}

	report := service.BuildReport(progress, totalFiles, 0, 0)
	if len(report.Failures) == 0 {
		return nil
	}
	fmt.Fprintln(a.out)
	return service.RenderFailures(a.out, report.Failures)
}

// Truncate rewinds a dataset's progress so files from index on are processed again.
func (a *App) Truncate(ctx context.Context, dataset string, index int) error {
	ds, err := a.dataset(dataset)
	if err != nil {
		return err
	}

	jr, err := journal.Open(a.cfg.State.Dir, ds.Name)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrLocalIO, err)
	}
	defer jr.Close()

	tracker := service.NewProgressTracker(ds.Name, a.store, a.publisher, jr)
	if _, _, err := tracker.Load(); err != nil {
		return err
	}
	if err := tracker.Truncate(ctx, index); err != nil {
		if errors.Is(err, domain.ErrInvalidTruncate) {
			return fmt.Errorf("%w: %v", ErrUsage, err)
		}
		return err
	}

	fmt.Fprintf(a.out, "Dataset %s truncated to %d completed files\n", ds.Name, index)
	return nil
}

// StubRemote serves an in-memory record API until ctx is canceled.
func (a *App) StubRemote(ctx context.Context, addr string) error {
	if addr == "" {
		addr = a.cfg.Stub.Addr
	}
	stub := stubremote.New(stubremote.Options{
		Username:    a.cfg.Stub.Username,
		Password:    a.cfg.Stub.Password,
		NameHeaders: a.cfg.Dedup.NameSynonyms,
	})

	serverErrCh := make(chan error, 1)
	go func() {
		if err := stub.Listen(addr); err != nil {
			serverErrCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Infow("Shutdown signal received, stopping stub", "records", stub.Count())
	case err := <-serverErrCh:
		return fmt.Errorf("stub server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return stub.Shutdown(shutdownCtx)
}

func (a *App) dataset(name string) (config.Dataset, error) {
	if name == "" {
		return config.Dataset{}, fmt.Errorf("%w: --dataset is required", ErrUsage)
	}
	ds, err := a.datasets.Find(name)
	if err != nil {
		return config.Dataset{}, fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return ds, nil
}
