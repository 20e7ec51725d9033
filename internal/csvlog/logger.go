package csvlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/sigfinder/sigfinder-go/internal/models"
)

// Logger appends live samples to a session CSV file in the shared log
// format. It is safe for use from the acquisition goroutine while the API
// pauses or closes it.
type Logger struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	path   string
	paused bool
}

// NewLogger creates a timestamp-named log file in dir and writes the
// header row.
func NewLogger(dir string) (*Logger, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	name := fmt.Sprintf("auto_log_%s.csv", time.Now().UTC().Format("2006-01-02_15-04-05"))
	path := filepath.Join(dir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create session log: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(Header); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write session log header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to flush session log header: %w", err)
	}

	return &Logger{file: file, writer: writer, path: path}, nil
}

// Path returns the log file location.
func (l *Logger) Path() string {
	return l.path
}

// SetPaused suspends or resumes writing. Samples logged while paused are
// dropped silently, matching the acquisition tool's pause behaviour.
func (l *Logger) SetPaused(paused bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.paused = paused
}

// Log appends one sample row and flushes so a crash loses at most the row
// being written.
func (l *Logger) Log(sample models.Sample) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.paused || l.file == nil {
		return nil
	}

	row := []string{
		sample.Timestamp.UTC().Format(time.RFC3339),
		strconv.FormatFloat(sample.Latitude, 'f', -1, 64),
		strconv.FormatFloat(sample.Longitude, 'f', -1, 64),
		strconv.Itoa(sample.FixQuality),
		strconv.Itoa(sample.Satellites),
		sample.RMCStatus,
		strconv.FormatFloat(sample.RSSI, 'f', -1, 64),
	}
	if err := l.writer.Write(row); err != nil {
		return fmt.Errorf("failed to write sample row: %w", err)
	}
	l.writer.Flush()
	if err := l.writer.Error(); err != nil {
		return fmt.Errorf("failed to flush sample row: %w", err)
	}
	return nil
}

// Close flushes and closes the log file. Further Log calls are no-ops.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	l.writer.Flush()
	err := l.file.Close()
	l.file = nil
	return err
}
