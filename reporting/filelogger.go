package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/acarl005/stripansi"
)

// RunDirectoryPrefix is the standardized prefix for per-run directories.
const RunDirectoryPrefix = "testrun-"

const (
	consoleLogFilename = "console.log"
	resultsFilename    = "results.json"
)

// FileLogger mirrors a run's artifacts to disk: the console transcript and
// the structured results. Each run gets its own directory under the base
// log directory.
type FileLogger struct {
	baseDir string
	logDir  string

	console *AsyncFile
}

// AsyncFile provides non-blocking file writing. Writes are queued to a
// background goroutine; Close drains the queue before closing the file.
type AsyncFile struct {
	file    *os.File
	queue   chan []byte
	wg      sync.WaitGroup
	mu      sync.Mutex
	stopped bool
}

// NewAsyncFile creates a new AsyncFile for non-blocking writes
func NewAsyncFile(path string) (*AsyncFile, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file %s: %w", path, err)
	}

	af := &AsyncFile{
		file:  file,
		queue: make(chan []byte, 100), // Buffer channel to reduce blocking
	}

	af.wg.Add(1)
	go af.processQueue()

	return af, nil
}

// Write queues data to be written asynchronously.
func (af *AsyncFile) Write(p []byte) (int, error) {
	af.mu.Lock()
	defer af.mu.Unlock()

	if af.stopped {
		return 0, fmt.Errorf("async file is closed")
	}

	// Copy before queueing; the caller may reuse p.
	data := make([]byte, len(p))
	copy(data, p)

	af.queue <- data
	return len(p), nil
}

// processQueue processes the write queue in the background
func (af *AsyncFile) processQueue() {
	defer af.wg.Done()

	for data := range af.queue {
		if _, err := af.file.Write(data); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing to file: %v\n", err)
		}
	}
}

// Close stops the async writer and closes the file
func (af *AsyncFile) Close() error {
	af.mu.Lock()
	if !af.stopped {
		af.stopped = true
		close(af.queue)
	}
	af.mu.Unlock()

	// Wait for all writes to complete
	af.wg.Wait()
	return af.file.Close()
}

// NewFileLogger creates a FileLogger rooted at baseDir for the given run.
func NewFileLogger(baseDir string, runID string) (*FileLogger, error) {
	if runID == "" {
		return nil, fmt.Errorf("runID cannot be empty")
	}
	if baseDir == "" {
		return nil, fmt.Errorf("baseDir cannot be empty")
	}

	logDir := filepath.Join(baseDir, RunDirectoryPrefix+runID)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory %s: %w", logDir, err)
	}

	console, err := NewAsyncFile(filepath.Join(logDir, consoleLogFilename))
	if err != nil {
		return nil, err
	}

	return &FileLogger{
		baseDir: baseDir,
		logDir:  logDir,
		console: console,
	}, nil
}

// ConsoleWriter returns the writer that mirrors transcript bytes into
// console.log. Terminal escape sequences are removed so the file stays
// grep-friendly when results tables render with color.
func (l *FileLogger) ConsoleWriter() io.Writer {
	return ansiStrippingWriter{dst: l.console}
}

type ansiStrippingWriter struct {
	dst io.Writer
}

func (w ansiStrippingWriter) Write(p []byte) (int, error) {
	if _, err := w.dst.Write([]byte(stripansi.Strip(string(p)))); err != nil {
		return 0, err
	}
	// Report the caller's length; stripping shortens what lands on disk.
	return len(p), nil
}

// LogDir returns the per-run directory.
func (l *FileLogger) LogDir() string {
	return l.logDir
}

// WriteResults writes the structured run results as indented JSON.
func (l *FileLogger) WriteResults(result any) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}

	path := filepath.Join(l.logDir, resultsFilename)
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}

// Close drains and closes the transcript file.
func (l *FileLogger) Close() error {
	return l.console.Close()
}
