package cli

import (
	"bytes"
	"context"

	"github.com/finwatch/findetect/internal/core/domain"
	"github.com/finwatch/findetect/internal/core/ports/driving"
)

// mockProcessor implements driving.FileProcessor for command tests.
type mockProcessor struct {
	lastReq     domain.ProcessRequest
	lastPrefix  string
	result      *domain.ProcessResult
	batchResult *driving.BatchResult
	err         error
}

func (m *mockProcessor) ProcessFile(_ context.Context, req domain.ProcessRequest) (*domain.ProcessResult, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.ProcessResult{Container: req.Container, Path: req.Path}, nil
}

func (m *mockProcessor) ProcessBatch(_ context.Context, req domain.ProcessRequest, prefix string, progress func(driving.BatchProgress)) (*driving.BatchResult, error) {
	m.lastReq = req
	m.lastPrefix = prefix
	if m.err != nil {
		return nil, m.err
	}
	if m.batchResult != nil {
		if progress != nil {
			total := m.batchResult.Processed + m.batchResult.Skipped + len(m.batchResult.Failed)
			for i := 0; i < total; i++ {
				progress(driving.BatchProgress{Done: i + 1, Total: total})
			}
		}
		return m.batchResult, nil
	}
	return &driving.BatchResult{Failed: map[string]string{}}, nil
}

// executeCommand runs the root command with args and captures output.
func executeCommand(args ...string) (string, error) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// withServices swaps the injected ports for the duration of a test.
func withServices(s Services, fn func()) {
	prevProcessor, prevRuns, prevConfig := processor, runStore, configStore
	SetServices(s)
	defer SetServices(Services{Processor: prevProcessor, RunStore: prevRuns, Config: prevConfig})
	fn()
}
