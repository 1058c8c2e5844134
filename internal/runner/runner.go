// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"gopkg.microglot.org/chiaro.go/exc"
	"gopkg.microglot.org/chiaro.go/internal/config"
	"gopkg.microglot.org/chiaro.go/internal/httpmsg"
	"gopkg.microglot.org/chiaro.go/internal/iter"
	"gopkg.microglot.org/chiaro.go/internal/target"
)

type Mode int

const (
	// ModeRequestLine parses every kept line of a file as a request line.
	ModeRequestLine Mode = iota
	// ModeRequest parses each file as a sequence of whole requests.
	ModeRequest
)

// Stdin is the target name that reads standard input.
const Stdin = "-"

type Option func(r *runner) error

func OptionWithConfig(cfg config.Config) Option {
	return func(r *runner) error {
		if err := config.Validate(cfg); err != nil {
			return err
		}
		r.Config = cfg
		return nil
	}
}

func OptionWithReporter(reporter exc.Reporter) Option {
	return func(r *runner) error {
		r.Reporter = reporter
		return nil
	}
}

func OptionWithLogger(log zerolog.Logger) Option {
	return func(r *runner) error {
		r.Log = log
		return nil
	}
}

// OptionWithReadFile replaces the function used to load targets.
func OptionWithReadFile(readFile func(name string) ([]byte, error)) Option {
	return func(r *runner) error {
		r.ReadFile = readFile
		return nil
	}
}

// Runner parses batches of files with the HTTP grammar.
type Runner interface {
	Run(ctx context.Context, req *RunRequest) (*RunResponse, error)
}

func New(opts ...Option) (Runner, error) {
	r := &runner{
		Config: config.Default(),
		Log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	if r.ReadFile == nil {
		r.ReadFile = readFile
	}
	if r.Reporter == nil {
		r.Reporter = exc.NewReporter(r.Config.NonFatal)
	}
	r.Semaphore = newSemaphore(r.Config.MaxConcurrency)
	return r, nil
}

type runner struct {
	Config    config.Config
	Reporter  exc.Reporter
	Log       zerolog.Logger
	ReadFile  func(name string) ([]byte, error)
	Semaphore *semaphore
}

type RunRequest struct {
	Files []string
	Mode  Mode
}

// FileResult holds what was parsed from one target. Only the field matching
// the run's Mode is populated.
type FileResult struct {
	URI          string
	RequestLines []httpmsg.RequestLine
	Requests     []httpmsg.Request
}

type RunResponse struct {
	Files []FileResult
}

// Run parses every target concurrently. Results are returned in target
// order. Parse failures are sent to the Reporter; if any of them is fatal
// the accumulated set is returned as a MultiException alongside the
// results.
func (self *runner) Run(ctx context.Context, req *RunRequest) (*RunResponse, error) {
	results := make(chan fileResult, len(req.Files))
	for x, file := range req.Files {
		go func(x int, file string) {
			res, err := self.runFile(ctx, file, req.Mode)
			results <- fileResult{index: x, result: res, err: err}
		}(x, file)
	}

	files := make([]FileResult, len(req.Files))
	var firstErr error
	for x := 0; x < len(req.Files); x = x + 1 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case result := <-results:
			if result.err != nil && firstErr == nil {
				firstErr = result.err
			}
			files[result.index] = result.result
		}
	}
	if firstErr != nil {
		return nil, firstErr
	}

	resp := &RunResponse{Files: files}
	if self.Reporter.Fatal() {
		return resp, MultiException(self.Reporter.Reported())
	}
	return resp, nil
}

type fileResult struct {
	index  int
	result FileResult
	err    error
}

func (self *runner) runFile(ctx context.Context, file string, mode Mode) (FileResult, error) {
	self.Semaphore.Lock()
	defer self.Semaphore.Unlock()

	out := FileResult{URI: file}
	body, err := self.ReadFile(file)
	if err == nil {
		body, err = target.Decode(file, body)
	}
	log := self.Log.With().Str("file", file).Logger()
	if err != nil {
		e := exc.WrapUnknown(exc.Location{URI: file}, err)
		self.Reporter.Report(e)
		log.Warn().Str("code", e.Code()).Msg(err.Error())
		return out, nil
	}
	log.Debug().Int("bytes", len(body)).Msg("parsing")

	switch mode {
	case ModeRequestLine:
		out.RequestLines, err = self.requestLines(ctx, file, body, log)
	case ModeRequest:
		out.Requests, err = self.requests(file, body, log)
	default:
		err = fmt.Errorf("unknown mode %d", mode)
	}
	return out, err
}

func (self *runner) requestLines(ctx context.Context, file string, body []byte, log zerolog.Logger) ([]httpmsg.RequestLine, error) {
	lines := iter.NewIteratorFilter(iter.NewLines(body), iter.SkipBlankAndComments(self.Config.CommentPrefix))
	defer lines.Close(ctx)

	var out []httpmsg.RequestLine
	for line := lines.Next(ctx); line.IsPresent(); line = lines.Next(ctx) {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		l := line.Value()
		result := httpmsg.ParseRequestLine(l.Text)
		if !result.OK() {
			if self.report(log, file, body, l.Offset, result.Exception()) {
				return out, nil
			}
			continue
		}
		if !self.Config.AllowsMethod(result.Value.Method) {
			e := exc.New(exc.Location{}, exc.CodeUnsupportedMethod, fmt.Sprintf("method %q is not allowed", result.Value.Method))
			if self.report(log, file, body, l.Offset, e) {
				return out, nil
			}
			continue
		}
		out = append(out, result.Value)
	}
	log.Debug().Int("request_lines", len(out)).Msg("parsed")
	return out, nil
}

func (self *runner) requests(file string, body []byte, log zerolog.Logger) ([]httpmsg.Request, error) {
	result := httpmsg.ParseRequests(body)
	if !result.OK() {
		self.report(log, file, body, 0, result.Exception())
		return nil, nil
	}
	var out []httpmsg.Request
	for _, req := range result.Value {
		if !self.Config.AllowsMethod(req.Method) {
			e := exc.New(exc.Location{Offset: req.Offset}, exc.CodeUnsupportedMethod, fmt.Sprintf("method %q is not allowed", req.Method))
			if self.report(log, file, body, 0, e) {
				return out, nil
			}
			continue
		}
		out = append(out, req)
	}
	log.Debug().Int("requests", len(out)).Msg("parsed")
	return out, nil
}

// report relocates e, whose offset is relative to base, into file
// coordinates and hands it to the Reporter. It returns true when the failure
// is fatal and the file should not be processed further.
func (self *runner) report(log zerolog.Logger, file string, body []byte, base int, e exc.Exception) bool {
	offset := base + e.Location().Offset
	line, column := position(body, offset)
	located := exc.Relocate(exc.Location{URI: file, Offset: offset, Line: line, Column: column}, e)
	fatal := self.Reporter.Report(located) != nil
	log.Warn().Str("code", located.Code()).Int("line", line).Int("column", column).Bool("fatal", fatal).Msg(located.Message())
	return fatal
}

// position converts a byte offset into a 1-based line and column.
func position(body []byte, offset int) (int, int) {
	if offset > len(body) {
		offset = len(body)
	}
	before := body[:offset]
	line := bytes.Count(before, []byte("\n")) + 1
	column := offset - (bytes.LastIndexByte(before, '\n') + 1) + 1
	return line, column
}

func readFile(name string) ([]byte, error) {
	path, err := target.Normalize(name)
	if err != nil {
		return nil, err
	}
	if path == Stdin {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

type MultiException []exc.Exception

func (self MultiException) Error() string {
	if len(self) == 0 {
		return "no exceptions"
	}
	var b strings.Builder
	for _, err := range self[:len(self)-1] {
		b.WriteString(err.Error())
		b.WriteString("; ")
	}
	b.WriteString(self[len(self)-1].Error())
	return b.String()
}

// AsMultiException unpacks err into its exceptions when it is a
// MultiException.
func AsMultiException(err error) (MultiException, bool) {
	var me MultiException
	if errors.As(err, &me) {
		return me, true
	}
	return nil, false
}
