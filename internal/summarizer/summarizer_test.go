package summarizer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nguyentantai21042004/caption-digest/internal/chunking"
	"github.com/nguyentantai21042004/caption-digest/internal/config"
	"github.com/nguyentantai21042004/caption-digest/internal/logger"
	"github.com/nguyentantai21042004/caption-digest/internal/mapreduce"
	"github.com/nguyentantai21042004/caption-digest/internal/transcript"
)

func meeting() *transcript.Transcript {
	t := transcript.FromSections([]transcript.Section{
		{Speaker: "Alice", StartTime: "00:00:00", EndTime: "00:00:10", Text: "We approved the budget. Next item."},
		{Speaker: "Bob", StartTime: "00:00:10", EndTime: "00:00:20", Text: "Launch moves to May!"},
	}, nil)
	t.Metadata.Language = "en"
	return t
}

func TestBuildPrompt(t *testing.T) {
	tr := meeting()
	chunk := &chunking.Chunk{Speakers: []string{"Bob"}, TimeRange: chunking.TimeRange{Start: "00:00:10", End: "00:00:20"}}

	tests := []struct {
		name string
		opts mapreduce.CallOptions
		want []string
	}{
		{
			name: "full",
			opts: mapreduce.CallOptions{Language: "vi"},
			want: []string{"Summarize the transcript below", "speakers: Alice, Bob", "Vietnamese"},
		},
		{
			name: "section",
			opts: mapreduce.CallOptions{PromptType: mapreduce.PromptSection, IsChunk: true, ChunkIndex: 1, TotalChunks: 3, Chunk: chunk},
			want: []string{"section 2 of 3", "00:00:10 - 00:00:20", "speakers: Bob", "[Context from previous section]", "English"},
		},
		{
			name: "combine",
			opts: mapreduce.CallOptions{PromptType: mapreduce.PromptCombine, IsCombining: true, TotalSections: 4},
			want: []string{"summaries of 4 consecutive sections"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			system, user := buildPrompt(tr, tt.opts)
			all := system + "\n" + user
			for _, w := range tt.want {
				if !strings.Contains(all, w) {
					t.Errorf("prompt missing %q:\n%s", w, all)
				}
			}
			if !strings.Contains(user, tr.Content) {
				t.Errorf("prompt does not include transcript content")
			}
		})
	}
}

func TestExtractive(t *testing.T) {
	tr := meeting()
	tr.Sections = append([]transcript.Section{{Speaker: "Carol", StartTime: "00:00:00", Text: "context only.", IsOverlap: true}}, tr.Sections...)

	s, err := implExtractive{}.Summarize(context.Background(), tr, mapreduce.CallOptions{IsChunk: true})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	want := "### Key points\n- **Alice** (00:00:00): We approved the budget.\n- **Bob** (00:00:10): Launch moves to May!"
	if s.Text != want {
		t.Errorf("Text = %q, want %q", s.Text, want)
	}
	if s.Usage == nil || s.Usage.TotalTokens == 0 {
		t.Errorf("Usage = %+v, want non-zero", s.Usage)
	}
}

func TestExtractive_Combine(t *testing.T) {
	tr := transcript.FromSections([]transcript.Section{
		{Speaker: "Summary", StartTime: "00:00:00", EndTime: "00:05:00", Text: "first part"},
		{Speaker: "Summary", StartTime: "00:05:00", EndTime: "00:09:00", Text: "second part"},
	}, nil)
	s, err := implExtractive{}.Summarize(context.Background(), tr, mapreduce.CallOptions{IsCombining: true, TotalSections: 2})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	for _, want := range []string{"Summary of 2 sections", "## 00:05:00 - 00:09:00\n\nsecond part"} {
		if !strings.Contains(s.Text, want) {
			t.Errorf("Text missing %q:\n%s", want, s.Text)
		}
	}
}

type flaky struct {
	calls int
	errs  []error
}

func (f *flaky) Provider() string { return "flaky" }

func (f *flaky) Summarize(context.Context, *transcript.Transcript, mapreduce.CallOptions) (*mapreduce.Summary, error) {
	f.calls++
	if f.calls <= len(f.errs) {
		return nil, f.errs[f.calls-1]
	}
	return &mapreduce.Summary{Text: "ok"}, nil
}

func TestRetrying(t *testing.T) {
	transient := fmt.Errorf("%w: 503", ErrTransient)
	tests := []struct {
		name      string
		errs      []error
		maxTries  uint
		wantCalls int
		wantErr   bool
	}{
		{name: "transient then ok", errs: []error{transient, transient}, maxTries: 4, wantCalls: 3},
		{name: "permanent", errs: []error{errors.New("bad request")}, maxTries: 4, wantCalls: 1, wantErr: true},
		{name: "tries exhausted", errs: []error{transient, transient, transient}, maxTries: 2, wantCalls: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &flaky{errs: tt.errs}
			r := &implRetrying{next: f, maxTries: tt.maxTries, initialInterval: time.Millisecond, logger: logger.Nop()}
			s, err := r.Summarize(context.Background(), meeting(), mapreduce.CallOptions{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("Summarize() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && s.Text != "ok" {
				t.Errorf("Text = %q, want ok", s.Text)
			}
			if f.calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", f.calls, tt.wantCalls)
			}
		})
	}
}

func TestOpenAI(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := calls.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("messages = %+v", req.Messages)
		}

		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":{"message":"slow down","type":"rate_limit"}}`)
			return
		}
		fmt.Fprintf(w, `{"id":"1","object":"chat.completion","model":%q,"choices":[{"index":0,"message":{"role":"assistant","content":"  the summary  "},"finish_reason":"stop"}],"usage":{"prompt_tokens":10,"completion_tokens":3,"total_tokens":13}}`, req.Model)
	}))
	defer srv.Close()

	s, err := New(config.LLMConfig{
		Provider:   "openai",
		Model:      "gpt-4o-mini",
		APIKeys:    []string{"sk-test"},
		BaseURL:    srv.URL + "/v1",
		MaxRetries: 2,
		Timeout:    5 * time.Second,
	}, logger.Nop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.(*implRetrying).initialInterval = time.Millisecond

	got, err := s.Summarize(context.Background(), meeting(), mapreduce.CallOptions{Provider: "openai"})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if got.Text != "the summary" || got.Model != "gpt-4o-mini" {
		t.Errorf("summary = %+v", got)
	}
	if got.Usage == nil || got.Usage.TotalTokens != 13 {
		t.Errorf("Usage = %+v, want total 13", got.Usage)
	}
	if calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", calls.Load())
	}
}

func TestGemini_RotatesKeys(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("x-goog-api-key")
		if key == "" {
			key = r.URL.Query().Get("key")
		}
		seen = append(seen, key)

		w.Header().Set("Content-Type", "application/json")
		if key == "k1" {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"error":{"code":429,"message":"quota exceeded","status":"RESOURCE_EXHAUSTED"}}`)
			return
		}
		fmt.Fprint(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"gemini "},{"text":"summary"}]}}],"usageMetadata":{"promptTokenCount":7,"candidatesTokenCount":2,"totalTokenCount":9}}`)
	}))
	defer srv.Close()

	g := &implGemini{apiKeys: []string{"k1", "k2"}, baseURL: srv.URL, model: "gemini-2.5-flash", logger: logger.Nop()}
	s, err := g.Summarize(context.Background(), meeting(), mapreduce.CallOptions{})
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if s.Text != "gemini summary" {
		t.Errorf("Text = %q, want %q", s.Text, "gemini summary")
	}
	if s.Usage == nil || s.Usage.TotalTokens != 9 {
		t.Errorf("Usage = %+v, want total 9", s.Usage)
	}
	if len(seen) != 2 || seen[0] != "k1" || seen[1] != "k2" {
		t.Errorf("keys used = %v, want [k1 k2]", seen)
	}
	if g.currentKey != 1 {
		t.Errorf("currentKey = %d, want 1", g.currentKey)
	}
}

func TestNew_RequiresKeys(t *testing.T) {
	for _, p := range []string{"gemini", "openai"} {
		if _, err := New(config.LLMConfig{Provider: p}, logger.Nop()); !errors.Is(err, ErrNoAPIKeys) {
			t.Errorf("New(%s) error = %v, want ErrNoAPIKeys", p, err)
		}
	}
	if _, err := New(config.LLMConfig{Provider: "extractive"}, logger.Nop()); err != nil {
		t.Errorf("New(extractive) error = %v", err)
	}
}
