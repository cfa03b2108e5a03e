package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gothiabil/bilgateway/completion"
	"github.com/gothiabil/bilgateway/models"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	mu       sync.Mutex
	calls    int
	apiKey   string
	messages []models.Message
	result   completion.Result
	err      error
}

func (c *stubCompleter) Complete(_ context.Context, apiKey string, messages []models.Message) (completion.Result, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.apiKey = apiKey
	c.messages = messages
	return c.result, c.err
}

func validAdRequest() models.GenerateAdRequest {
	return models.GenerateAdRequest{
		FormData:     models.CarDetails{Brand: "Volvo", Model: "XC60", Year: "2020"},
		APIKey:       "sk-test",
		SystemPrompt: "Du skriver bilannonser.",
	}
}

func TestGenerateAd_Success(t *testing.T) {
	stub := &stubCompleter{result: completion.Result{Content: "🚗 Volvo XC60 till salu!"}}
	s := New(stub, "", 2)

	ad, err := s.GenerateAd(context.Background(), validAdRequest())
	require.NoError(t, err)

	assert.Equal(t, "🚗 Volvo XC60 till salu!", ad)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, "sk-test", stub.apiKey)
	require.Len(t, stub.messages, 2)
	assert.Equal(t, models.Message{Role: models.RoleSystem, Content: "Du skriver bilannonser."}, stub.messages[0])
	assert.Equal(t, models.RoleUser, stub.messages[1].Role)
	assert.Equal(t, RenderAdPrompt(validAdRequest().FormData), stub.messages[1].Content)
}

func TestGenerateAd_EmptyContentIsNotAnError(t *testing.T) {
	s := New(&stubCompleter{}, "", 1)

	ad, err := s.GenerateAd(context.Background(), validAdRequest())
	require.NoError(t, err)
	assert.Empty(t, ad)
}

func TestGenerateAd_SystemPromptForwardedVerbatim(t *testing.T) {
	for _, prompt := range []string{"", "  ", " Skriv kort.\n"} {
		stub := &stubCompleter{}
		s := New(stub, "", 1)

		req := validAdRequest()
		req.SystemPrompt = prompt
		_, err := s.GenerateAd(context.Background(), req)
		require.NoError(t, err)

		assert.Equal(t, models.Message{Role: models.RoleSystem, Content: prompt}, stub.messages[0])
	}
}

func TestGenerateAd_MissingCredential(t *testing.T) {
	stub := &stubCompleter{}
	s := New(stub, "", 1)

	req := validAdRequest()
	req.APIKey = ""
	_, err := s.GenerateAd(context.Background(), req)

	require.Error(t, err)
	assert.Equal(t, KindMissingCredential, KindOf(err))
	assert.Equal(t, MsgMissingCredential, MessageOf(err))
	assert.Equal(t, 0, stub.calls)
}

func TestGenerateAd_BlankCredentialIsForwarded(t *testing.T) {
	stub := &stubCompleter{err: &completion.StatusError{StatusCode: http.StatusUnauthorized}}
	s := New(stub, "", 1)

	req := validAdRequest()
	req.APIKey = " "
	_, err := s.GenerateAd(context.Background(), req)

	assert.Equal(t, KindInvalidCredential, KindOf(err))
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, " ", stub.apiKey)
}

func TestGenerateAd_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		kind    Kind
		message string
	}{
		{"unauthorized", &completion.StatusError{StatusCode: http.StatusUnauthorized}, KindInvalidCredential, MsgInvalidCredential},
		{"rate limited", &completion.StatusError{StatusCode: http.StatusTooManyRequests}, KindRateLimited, MsgRateLimited},
		{"server error", &completion.StatusError{StatusCode: http.StatusBadGateway}, KindUpstream, MsgUpstream},
		{"bad request", &completion.StatusError{StatusCode: http.StatusBadRequest}, KindUpstream, MsgUpstream},
		{"transport", errors.Wrap(errors.New("dial tcp: connection refused"), "call completion API"), KindInternal, "dial tcp: connection refused"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubCompleter{err: tt.err}
			s := New(stub, "", 1)

			_, err := s.GenerateAd(context.Background(), validAdRequest())
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, tt.message, MessageOf(err))
			assert.Equal(t, 1, stub.calls)
		})
	}
}

func TestGenerateAd_AgainstUpstreamServer(t *testing.T) {
	var hits int32
	status := http.StatusTooManyRequests
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.WriteHeader(status)
		w.Write([]byte(`{"error":{"message":"slow down"}}`))
	}))
	defer server.Close()

	client := completion.NewClient(completion.Options{URL: server.URL, Model: "gpt-4o-mini", MaxTokens: 1000, Temperature: 0.7, Timeout: time.Second})
	s := New(client, "", 4)

	_, err := s.GenerateAd(context.Background(), validAdRequest())
	assert.Equal(t, KindRateLimited, KindOf(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	req := validAdRequest()
	req.APIKey = ""
	_, err = s.GenerateAd(context.Background(), req)
	assert.Equal(t, KindMissingCredential, KindOf(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestGenerateAd_CancelledWhileWaitingForSlot(t *testing.T) {
	s := New(&stubCompleter{}, "", 1)
	require.NoError(t, s.inFlight.Acquire(context.Background(), 1))
	defer s.inFlight.Release(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := s.GenerateAd(ctx, validAdRequest())
	require.Error(t, err)
	assert.Equal(t, KindInternal, KindOf(err))
}

func TestResearch_ForwardsHistory(t *testing.T) {
	stub := &stubCompleter{result: completion.Result{Content: "XC60 har bra krocksäkerhet."}}
	s := New(stub, "sk-server", 1)

	history := []models.Message{
		{Role: models.RoleUser, Content: "Är XC60 säker?"},
		{Role: models.RoleAssistant, Content: "Ja, den har höga betyg."},
		{Role: models.RoleUser, Content: "Och krocktester?"},
	}
	answer, err := s.Research(context.Background(), history)
	require.NoError(t, err)

	assert.Equal(t, "XC60 har bra krocksäkerhet.", answer)
	assert.Equal(t, history, stub.messages)
	assert.Equal(t, "sk-server", stub.apiKey)
}

func TestResearch_Failures(t *testing.T) {
	userMsg := []models.Message{{Role: models.RoleUser, Content: "Hej"}}
	tests := []struct {
		name    string
		apiKey  string
		history []models.Message
		err     error
		kind    Kind
		calls   int
	}{
		{"empty history", "sk-server", nil, nil, KindInvalidRequest, 0},
		{"system role", "sk-server", []models.Message{{Role: models.RoleSystem, Content: "x"}}, nil, KindInvalidRequest, 0},
		{"no server key", "", userMsg, nil, KindMissingCredential, 0},
		{"unauthorized", "sk-server", userMsg, &completion.StatusError{StatusCode: http.StatusUnauthorized}, KindUpstream, 1},
		{"rate limited", "sk-server", userMsg, &completion.StatusError{StatusCode: http.StatusTooManyRequests}, KindUpstream, 1},
		{"server error", "sk-server", userMsg, &completion.StatusError{StatusCode: http.StatusInternalServerError}, KindUpstream, 1},
		{"transport", "sk-server", userMsg, errors.New("timeout"), KindUpstream, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stub := &stubCompleter{err: tt.err}
			s := New(stub, tt.apiKey, 1)

			_, err := s.Research(context.Background(), tt.history)
			require.Error(t, err)
			assert.Equal(t, tt.kind, KindOf(err))
			assert.Equal(t, MsgResearchFallback, MessageOf(err))
			assert.Equal(t, tt.calls, stub.calls)
		})
	}
}
