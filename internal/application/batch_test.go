package application

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"localebatch/internal/domain"
	"localebatch/internal/domain/entities"
	"localebatch/internal/infrastructure/filesystem"
)

const testModel = "gemini-test"

var (
	textJob = entities.Job{
		Name:          entities.JobDescription,
		SourcePath:    "description_en.txt",
		Format:        entities.FormatText,
		OutputPattern: "output/description_{code}.txt",
	}
	jsonJob = entities.Job{
		Name:          entities.JobMessages,
		SourcePath:    "messages.json",
		Format:        entities.FormatJSON,
		OutputPattern: "output/{code}/messages.json",
	}
	messagesSource = `{
  "extensionName": {"message": "Gemini Summary", "description": "Name of the extension"},
  "summarize": {"message": "Summarize <b>now</b>"},
  "options": {"message": "Options"}
}`
)

func newTestService(t *testing.T, gen *fakeGenerator, store *memStore, opts ...Option) (*BatchService, *countingPacer, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.InfoLevel)
	pacer := &countingPacer{}
	svc := NewBatchService(
		Settings{Languages: entities.DefaultLanguageTable(), Model: testModel, Brand: "Gemini"},
		gen, fakeRenderer{}, pacer, store, zap.New(core), opts...,
	)
	return svc, pacer, logs
}

func echoGenerator() *fakeGenerator {
	return &fakeGenerator{respond: func(req entities.TranslationRequest) (string, error) {
		return "[" + req.Language.Name + "] " + req.Content, nil
	}}
}

func failedLanguages(logs *observer.ObservedLogs) []string {
	var codes []string
	for _, e := range logs.FilterMessage("failed to generate content").All() {
		codes = append(codes, e.ContextMap()["language"].(string))
	}
	return codes
}

func TestRun_OneArtifactPerLanguage(t *testing.T) {
	store := newMemStore(map[string]string{"description_en.txt": "A browser extension."})
	gen := echoGenerator()
	svc, pacer, _ := newTestService(t, gen, store)

	report, err := svc.Run(context.Background(), textJob)
	require.NoError(t, err)

	table := entities.DefaultLanguageTable()
	require.Len(t, store.files, len(table))
	for _, lang := range table {
		got, ok := store.files["output/description_"+lang.Code+".txt"]
		require.True(t, ok, "missing artifact for %s", lang.Code)
		assert.Equal(t, "["+lang.Name+"] A browser extension.", string(got))
	}

	assert.Equal(t, len(table), report.Succeeded())
	assert.Zero(t, report.Failed())
	assert.Equal(t, len(table), pacer.waits, "one wait before every call")
	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, entities.JobDescription, report.Job)
}

func TestRun_RequestPerLanguage(t *testing.T) {
	store := newMemStore(map[string]string{"description_en.txt": "Hello"})
	gen := echoGenerator()
	svc, _, _ := newTestService(t, gen, store)

	_, err := svc.Run(context.Background(), textJob)
	require.NoError(t, err)

	table := entities.DefaultLanguageTable()
	require.Len(t, gen.requests, len(table))

	seen := map[string]bool{}
	for i, req := range gen.requests {
		assert.Equal(t, table[i], req.Language, "table order is kept")
		assert.Contains(t, req.SystemInstruction, table[i].Name)
		assert.False(t, seen[req.SystemInstruction], "instruction for %s is not distinct", table[i].Code)
		seen[req.SystemInstruction] = true

		assert.Equal(t, "Hello", req.Content)
		assert.Equal(t, testModel, req.Model)
		assert.Zero(t, req.Temperature)
		assert.Empty(t, req.ResponseMIMEType, "plain text jobs carry no structured output hint")
	}
}

func TestRun_SingleLanguageFailureDoesNotAbort(t *testing.T) {
	store := newMemStore(map[string]string{"description_en.txt": "Hello"})
	gen := &fakeGenerator{respond: func(req entities.TranslationRequest) (string, error) {
		if req.Language.Code == "fr" {
			return "", errors.New("401 API key not valid")
		}
		return "ok", nil
	}}
	svc, _, logs := newTestService(t, gen, store)

	report, err := svc.Run(context.Background(), textJob)
	require.NoError(t, err)

	table := entities.DefaultLanguageTable()
	assert.Len(t, gen.requests, len(table), "languages after the failure are still attempted")
	assert.Len(t, store.files, len(table)-1)
	assert.NotContains(t, store.files, "output/description_fr.txt")
	assert.Contains(t, store.files, "output/description_it.txt")

	assert.Equal(t, []string{"fr"}, report.FailedCodes())
	assert.Equal(t, []string{"fr"}, failedLanguages(logs))

	for _, o := range report.Outcomes {
		if o.Language.Code == "fr" {
			assert.Equal(t, domain.StatusFailed, o.Status)
			assert.Equal(t, domain.CodeTransport, o.ErrorCode)
			assert.Contains(t, o.ErrorMessage, "API key not valid")
			assert.Empty(t, o.ArtifactPath)
		}
	}
}

func TestRun_EmptyResponse(t *testing.T) {
	store := newMemStore(map[string]string{"description_en.txt": "Hello"})
	gen := &fakeGenerator{respond: func(req entities.TranslationRequest) (string, error) {
		if req.Language.Code == "it" {
			return " \n", nil
		}
		return "ok", nil
	}}
	svc, _, logs := newTestService(t, gen, store)

	report, err := svc.Run(context.Background(), textJob)
	require.NoError(t, err)

	assert.NotContains(t, store.files, "output/description_it.txt")
	assert.Equal(t, []string{"it"}, report.FailedCodes())
	assert.Equal(t, []string{"it"}, failedLanguages(logs))
	assert.Equal(t, domain.CodeEmptyResponse, report.Outcomes[3].ErrorCode)
}

func TestRun_GeneratorEmptyResponseErrorKeepsCode(t *testing.T) {
	store := newMemStore(map[string]string{"description_en.txt": "Hello"})
	gen := &fakeGenerator{respond: func(entities.TranslationRequest) (string, error) {
		return "", domain.ErrEmptyResponse
	}}
	svc, _, _ := newTestService(t, gen, store)

	report, err := svc.Run(context.Background(), textJob)
	require.NoError(t, err)
	assert.Empty(t, store.files)
	for _, o := range report.Outcomes {
		assert.Equal(t, domain.CodeEmptyResponse, o.ErrorCode)
	}
}

func TestRun_InvalidJSONResponse(t *testing.T) {
	store := newMemStore(map[string]string{"messages.json": messagesSource})
	gen := &fakeGenerator{respond: func(req entities.TranslationRequest) (string, error) {
		if req.Language.Code == "ru" {
			return `{"extensionName": {"message": "Сводка Gemini"`, nil
		}
		return req.Content, nil
	}}
	svc, _, logs := newTestService(t, gen, store)

	report, err := svc.Run(context.Background(), jsonJob)
	require.NoError(t, err)

	assert.NotContains(t, store.files, "output/ru/messages.json")
	assert.Contains(t, store.files, "output/de/messages.json")
	assert.Equal(t, []string{"ru"}, report.FailedCodes())
	assert.Equal(t, []string{"ru"}, failedLanguages(logs))

	for _, req := range gen.requests {
		assert.Equal(t, entities.MIMEJSON, req.ResponseMIMEType)
	}
	for _, o := range report.Outcomes {
		if o.Language.Code == "ru" {
			assert.Equal(t, domain.CodeInvalidJSON, o.ErrorCode)
		}
	}
}

func TestRun_JSONRoundTripKeepsKeys(t *testing.T) {
	store := newMemStore(map[string]string{"messages.json": messagesSource})
	gen := &fakeGenerator{respond: func(req entities.TranslationRequest) (string, error) {
		if req.Language.Code == "de" {
			return `{"extensionName":{"message":"Gemini-Zusammenfassung","description":"Name der Erweiterung"},` +
				`"summarize":{"message":"Jetzt <b>zusammenfassen</b> – schön"},"options":{"message":"Optionen"}}`, nil
		}
		return req.Content, nil
	}}
	svc, _, _ := newTestService(t, gen, store)

	_, err := svc.Run(context.Background(), jsonJob)
	require.NoError(t, err)

	out := store.files["output/de/messages.json"]
	require.NotEmpty(t, out)

	var source, translated map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(messagesSource), &source))
	require.NoError(t, json.Unmarshal(out, &translated))
	assert.ElementsMatch(t, keys(source), keys(translated))

	text := string(out)
	assert.Contains(t, text, "schön", "non-ASCII characters are not escaped")
	assert.Contains(t, text, "<b>zusammenfassen</b>", "HTML characters are not escaped")
	assert.True(t, strings.HasPrefix(text, "{\n    \""), "four-space indentation")
	assert.False(t, strings.HasSuffix(text, "\n"))
	assert.Less(t, strings.Index(text, `"extensionName"`), strings.Index(text, `"summarize"`))
	assert.Less(t, strings.Index(text, `"summarize"`), strings.Index(text, `"options"`), "keys keep the model's order")
}

func TestRun_SourceErrors(t *testing.T) {
	t.Run("missing source", func(t *testing.T) {
		gen := echoGenerator()
		svc, _, _ := newTestService(t, gen, newMemStore(nil))

		report, err := svc.Run(context.Background(), textJob)
		require.Error(t, err)
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.Nil(t, report)
		assert.Empty(t, gen.requests)
	})

	t.Run("invalid JSON source", func(t *testing.T) {
		gen := echoGenerator()
		svc, _, _ := newTestService(t, gen, newMemStore(map[string]string{"messages.json": "{"}))

		_, err := svc.Run(context.Background(), jsonJob)
		assert.ErrorIs(t, err, domain.ErrInvalidSource)
		assert.Empty(t, gen.requests)
	})
}

func TestRun_WriteFailure(t *testing.T) {
	store := newMemStore(map[string]string{"description_en.txt": "Hello"})
	store.failPaths["output/description_ko.txt"] = true
	svc, _, _ := newTestService(t, echoGenerator(), store)

	report, err := svc.Run(context.Background(), textJob)
	require.NoError(t, err)

	last := report.Outcomes[len(report.Outcomes)-1]
	assert.Equal(t, "ko", last.Language.Code)
	assert.Equal(t, domain.CodeWriteArtifact, last.ErrorCode)
	assert.Equal(t, len(report.Outcomes)-1, report.Succeeded())
}

func TestRun_CancelStopsBetweenLanguages(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := newMemStore(map[string]string{"description_en.txt": "Hello"})
	gen := &fakeGenerator{respond: func(req entities.TranslationRequest) (string, error) {
		if req.Language.Code == "es" {
			cancel()
		}
		return "ok", nil
	}}
	notifier := &fakeNotifier{}
	svc, _, _ := newTestService(t, gen, store, WithNotifier(notifier))

	report, err := svc.Run(ctx, textJob)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Len(t, report.Outcomes, 2)
	assert.Len(t, gen.requests, 2)
	assert.Empty(t, notifier.reports, "interrupted runs are not announced")
}

func TestRun_CancelDuringPacerWait(t *testing.T) {
	store := newMemStore(map[string]string{"description_en.txt": "Hello"})
	gen := echoGenerator()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pacer := &countingPacer{cancelAt: 3, cancel: cancel}
	svc := NewBatchService(Settings{Languages: entities.DefaultLanguageTable(), Brand: "Gemini"},
		gen, fakeRenderer{}, pacer, store, nil)

	report, err := svc.Run(ctx, textJob)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, report.Outcomes, 2, "the interrupted language gets no outcome")
	assert.Len(t, gen.requests, 2)
	assert.NotContains(t, store.files, "output/description_fr.txt")
}

func TestRun_RecordsAndNotifies(t *testing.T) {
	store := newMemStore(map[string]string{"description_en.txt": "Hello"})
	outcomes := &fakeOutcomes{err: errors.New("connection refused")}
	notifier := &fakeNotifier{}
	svc, _, logs := newTestService(t, echoGenerator(), store,
		WithOutcomeRepository(outcomes), WithNotifier(notifier))

	report, err := svc.Run(context.Background(), textJob)
	require.NoError(t, err)

	assert.Len(t, outcomes.recorded, len(entities.DefaultLanguageTable()))
	assert.Len(t, outcomes.runIDs, 1)
	assert.True(t, outcomes.runIDs[report.RunID])
	assert.Len(t, store.files, len(entities.DefaultLanguageTable()), "ledger errors never drop artifacts")
	assert.NotEmpty(t, logs.FilterMessage("outcome not recorded").All())

	require.Len(t, notifier.reports, 1)
	assert.Same(t, report, notifier.reports[0])
}

func TestRun_WritesToDisk(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "description_en.txt")
	require.NoError(t, os.WriteFile(src, []byte("Hello"), 0o644))

	job := entities.Job{
		Name:          "description",
		SourcePath:    src,
		Format:        entities.FormatText,
		OutputPattern: filepath.Join(dir, "output", "description_{code}.txt"),
	}
	svc := NewBatchService(
		Settings{Languages: entities.LanguageTable{{Code: "de", Name: "German"}, {Code: "pt_BR", Name: "Brazilian Portuguese"}}, Brand: "Gemini"},
		echoGenerator(), fakeRenderer{}, &countingPacer{}, filesystem.NewStore(), nil,
	)

	report, err := svc.Run(context.Background(), job)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Succeeded())

	got, err := os.ReadFile(filepath.Join(dir, "output", "description_pt_BR.txt"))
	require.NoError(t, err)
	assert.Equal(t, "[Brazilian Portuguese] Hello", string(got))
}

func keys(m map[string]json.RawMessage) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
