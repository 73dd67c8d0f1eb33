package backup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/dukerupert/homestock/internal/sheet"
)

var (
	ErrDisabled   = errors.New("backup not configured")
	ErrInProgress = errors.New("backup already running")
)

// s3Client is the part of *s3.Client the manager uses.
type s3Client interface {
	PutObject(ctx context.Context, input *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Config struct {
	Endpoint   string
	Bucket     string
	Region     string
	AccessKey  string
	SecretKey  string
	Passphrase string
	// Interval between scheduled backups. Zero disables the schedule but
	// still allows on-demand runs.
	Interval time.Duration
	// Prefix is prepended to every object key.
	Prefix string
}

func (c Config) enabled() bool {
	return c.Bucket != "" && c.AccessKey != "" && c.SecretKey != "" && c.Passphrase != ""
}

type State string

const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateDisabled State = "disabled"
	StateError    State = "error"
)

type Status struct {
	State      State      `json:"state"`
	LastBackup *time.Time `json:"lastBackup,omitempty"`
	LastKey    string     `json:"lastKey,omitempty"`
	Error      string     `json:"error,omitempty"`
	InProgress bool       `json:"inProgress"`
}

// StatusCallback is called whenever the state changes.
type StatusCallback func(Status)

// Result describes one uploaded backup.
type Result struct {
	Key  string    `json:"key"`
	Size int       `json:"size"`
	At   time.Time `json:"at"`
}

// Manager snapshots the sheets, encrypts the workbook and uploads it.
type Manager struct {
	mu       sync.RWMutex
	cfg      Config
	src      sheet.Store
	layouts  []sheet.Layout
	client   s3Client
	status   Status
	callback StatusCallback
	logger   *slog.Logger
	now      func() time.Time

	cancel context.CancelFunc
	done   chan struct{}
}

func NewManager(cfg Config, src sheet.Store, layouts []sheet.Layout, logger *slog.Logger, callback StatusCallback) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		cfg:      cfg,
		src:      src,
		layouts:  layouts,
		callback: callback,
		logger:   logger.With("component", "backup"),
		now:      time.Now,
		status:   Status{State: StateDisabled},
	}
	if cfg.enabled() {
		m.client = newS3Client(cfg)
		m.status.State = StateIdle
	}
	return m
}

func newS3Client(cfg Config) *s3.Client {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return s3.New(opts)
}

// Start runs a backup every Interval until Stop. It does nothing when
// backups are disabled or no interval is set.
func (m *Manager) Start(ctx context.Context) {
	m.mu.Lock()
	if m.client == nil || m.cfg.Interval <= 0 || m.cancel != nil {
		m.mu.Unlock()
		return
	}
	ctx, m.cancel = context.WithCancel(ctx)
	m.done = make(chan struct{})
	interval := m.cfg.Interval
	m.mu.Unlock()

	m.logger.Info("scheduled backups enabled", "interval", interval)
	go func() {
		defer close(m.done)
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if _, err := m.RunNow(ctx); err != nil && !errors.Is(err, ErrInProgress) {
					m.logger.Error("scheduled backup failed", "error", err)
				}
			}
		}
	}()
}

// Stop ends the schedule and waits for an in-flight run to finish.
func (m *Manager) Stop() {
	m.mu.RLock()
	cancel, done := m.cancel, m.done
	m.mu.RUnlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Manager) setStatus(s Status) {
	m.mu.Lock()
	m.status = s
	m.mu.Unlock()
	if m.callback != nil {
		m.callback(s)
	}
}

// begin moves to running unless disabled or already running.
func (m *Manager) begin() (Status, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.status
	switch {
	case m.client == nil:
		return prev, ErrDisabled
	case prev.InProgress:
		return prev, ErrInProgress
	}
	m.status = Status{State: StateRunning, InProgress: true, LastBackup: prev.LastBackup, LastKey: prev.LastKey}
	return prev, nil
}

// RunNow takes a backup immediately.
func (m *Manager) RunNow(ctx context.Context) (Result, error) {
	prev, err := m.begin()
	if err != nil {
		return Result{}, err
	}
	if m.callback != nil {
		m.callback(m.Status())
	}

	res, err := m.run(ctx)
	if err != nil {
		m.setStatus(Status{State: StateError, Error: err.Error(), LastBackup: prev.LastBackup, LastKey: prev.LastKey})
		return Result{}, err
	}
	at := res.At
	m.setStatus(Status{State: StateIdle, LastBackup: &at, LastKey: res.Key})
	m.logger.Info("backup uploaded", "key", res.Key, "bytes", res.Size)
	return res, nil
}

func (m *Manager) run(ctx context.Context) (Result, error) {
	m.mu.RLock()
	client, cfg := m.client, m.cfg
	m.mu.RUnlock()

	workbook, err := Snapshot(ctx, m.src, m.layouts)
	if err != nil {
		return Result{}, fmt.Errorf("snapshot: %w", err)
	}
	enc, err := Encrypt(workbook, cfg.Passphrase)
	if err != nil {
		return Result{}, fmt.Errorf("encrypt: %w", err)
	}

	at := m.now().UTC()
	key := cfg.Prefix + "homestock-" + at.Format("2006-01-02T150405Z") + ".xlsx.enc"
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(enc),
		ContentLength: aws.Int64(int64(len(enc))),
		ContentType:   aws.String("application/octet-stream"),
	})
	if err != nil {
		return Result{}, fmt.Errorf("upload to s3: %w", err)
	}
	return Result{Key: key, Size: len(enc), At: at}, nil
}
