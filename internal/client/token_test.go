package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"testing"
	"time"

	mocks "github.com/denmor86/ya-reseller/internal/client/mocks"
	"github.com/denmor86/ya-reseller/internal/models"
	"go.uber.org/mock/gomock"
)

func newResponse(status int, body string) *http.Response {
	return &http.Response{
		Status:        http.StatusText(status),
		StatusCode:    status,
		Body:          io.NopCloser(bytes.NewBufferString(body)),
		ContentLength: int64(len(body)),
		Header:        make(http.Header),
	}
}

func newTestTokenManager(client HTTPClient, now time.Time) *TokenManager {
	m := NewTokenManager("https://auth.example.com/", "id", "secret", 5*time.Minute, client)
	m.now = func() time.Time { return now }
	return m
}

func TestTokenManager_Token(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	testCases := []struct {
		TestName       string
		Cached         *models.AccessToken
		SetupMocks     func(m *mocks.MockHTTPClient)
		ExpectedToken  string
		ExpectedExpiry time.Time
		ExpectedStatus int
		ExpectedError  bool
	}{
		{
			TestName: "Success. Valid cached token without network call #1",
			Cached:   &models.AccessToken{Value: "cached", IssuedAt: now.Add(-time.Minute), ExpiresAt: now.Add(time.Hour)},
			SetupMocks: func(m *mocks.MockHTTPClient) {
				m.EXPECT().Do(gomock.Any()).Times(0)
			},
			ExpectedToken:  "cached",
			ExpectedExpiry: now.Add(time.Hour),
		},
		{
			TestName: "Success. Expired token is refreshed #2",
			Cached:   &models.AccessToken{Value: "old", IssuedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Minute)},
			SetupMocks: func(m *mocks.MockHTTPClient) {
				m.EXPECT().Do(gomock.Any()).Return(newResponse(http.StatusOK, `{"access_token":"fresh","token_type":"Bearer","expires_in":86399}`), nil).Times(1)
			},
			ExpectedToken:  "fresh",
			ExpectedExpiry: now.Add(86399 * time.Second),
		},
		{
			TestName: "Success. Token inside safety margin is refreshed #3",
			Cached:   &models.AccessToken{Value: "old", IssuedAt: now.Add(-time.Hour), ExpiresAt: now.Add(4 * time.Minute)},
			SetupMocks: func(m *mocks.MockHTTPClient) {
				m.EXPECT().Do(gomock.Any()).Return(newResponse(http.StatusOK, `{"access_token":"fresh","expires_in":3600}`), nil).Times(1)
			},
			ExpectedToken:  "fresh",
			ExpectedExpiry: now.Add(time.Hour),
		},
		{
			TestName: "Error. Credentials rejected #4",
			SetupMocks: func(m *mocks.MockHTTPClient) {
				m.EXPECT().Do(gomock.Any()).Return(newResponse(http.StatusUnauthorized, `{"error":"invalid_client"}`), nil)
			},
			ExpectedStatus: http.StatusUnauthorized,
			ExpectedError:  true,
		},
		{
			TestName: "Error. OAuth server unreachable #5",
			SetupMocks: func(m *mocks.MockHTTPClient) {
				m.EXPECT().Do(gomock.Any()).Return(nil, errors.New("dial tcp: connection refused"))
			},
			ExpectedError: true,
		},
		{
			TestName: "Error. Empty access token #6",
			SetupMocks: func(m *mocks.MockHTTPClient) {
				m.EXPECT().Do(gomock.Any()).Return(newResponse(http.StatusOK, `{"expires_in":3600}`), nil)
			},
			ExpectedStatus: http.StatusOK,
			ExpectedError:  true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.TestName, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			mockHTTPClient := mocks.NewMockHTTPClient(ctrl)
			tc.SetupMocks(mockHTTPClient)

			manager := newTestTokenManager(mockHTTPClient, now)
			if tc.Cached != nil {
				manager.current.Store(tc.Cached)
			}

			token, err := manager.Token(context.Background())
			if tc.ExpectedError {
				var authErr *AuthError
				if !errors.As(err, &authErr) {
					t.Fatalf("Expected AuthError, got: '%v'", err)
				}
				if authErr.Status != tc.ExpectedStatus {
					t.Errorf("Expected status: '%v', got: '%v'", tc.ExpectedStatus, authErr.Status)
				}
				if cached := manager.current.Load(); cached != nil {
					t.Errorf("Expected no cached token after failure, got: '%v'", cached.Value)
				}
				return
			}
			if err != nil {
				t.Fatalf("Expected no error, got: '%v'", err)
			}
			if token != tc.ExpectedToken {
				t.Errorf("Expected token: '%v', got: '%v'", tc.ExpectedToken, token)
			}
			if expiry := manager.current.Load().ExpiresAt; !expiry.Equal(tc.ExpectedExpiry) {
				t.Errorf("Expected expiry: '%v', got: '%v'", tc.ExpectedExpiry, expiry)
			}
		})
	}
}

func TestTokenManager_ReuseAndRequestShape(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)

	mockHTTPClient.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost {
			t.Errorf("Expected POST, got: '%v'", req.Method)
		}
		if req.URL.String() != "https://auth.example.com/oauth/oauth20/token" {
			t.Errorf("Unexpected token url: '%v'", req.URL.String())
		}
		if ct := req.Header.Get("Content-Type"); ct != "application/x-www-form-urlencoded" {
			t.Errorf("Unexpected content type: '%v'", ct)
		}
		if err := req.ParseForm(); err != nil {
			t.Fatalf("Failed to parse form: %v", err)
		}
		if req.PostForm.Get("grant_type") != "client_credentials" ||
			req.PostForm.Get("client_id") != "id" ||
			req.PostForm.Get("client_secret") != "secret" {
			t.Errorf("Unexpected form: '%v'", req.PostForm)
		}
		return newResponse(http.StatusOK, `{"access_token":"abc","expires_in":3600}`), nil
	}).Times(1)

	manager := newTestTokenManager(mockHTTPClient, time.Now())
	for i := 0; i < 2; i++ {
		token, err := manager.Token(context.Background())
		if err != nil || token != "abc" {
			t.Fatalf("Expected token 'abc', got: '%v' '%v'", token, err)
		}
	}
}

func TestTokenManager_ConcurrentRefreshIsShared(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)

	mockHTTPClient.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		time.Sleep(50 * time.Millisecond)
		return newResponse(http.StatusOK, `{"access_token":"shared","expires_in":3600}`), nil
	}).Times(1)

	manager := newTestTokenManager(mockHTTPClient, time.Now())

	var wg sync.WaitGroup
	tokens := make([]string, 10)
	for i := range tokens {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			token, err := manager.Token(context.Background())
			if err != nil {
				t.Errorf("Expected no error, got: '%v'", err)
			}
			tokens[i] = token
		}(i)
	}
	wg.Wait()

	for _, token := range tokens {
		if token != "shared" {
			t.Errorf("Expected token 'shared', got: '%v'", token)
		}
	}
}

func TestTokenManager_CancelledCallerDoesNotFailOthers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)

	started := make(chan struct{})
	mockHTTPClient.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		close(started)
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(100 * time.Millisecond):
		}
		return newResponse(http.StatusOK, `{"access_token":"shared","expires_in":3600}`), nil
	}).Times(1)

	manager := newTestTokenManager(mockHTTPClient, time.Now())

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, err := manager.Token(ctxA)
		errA <- err
	}()

	<-started
	type result struct {
		token string
		err   error
	}
	resB := make(chan result, 1)
	go func() {
		token, err := manager.Token(context.Background())
		resB <- result{token, err}
	}()

	time.Sleep(20 * time.Millisecond)
	cancelA()

	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Errorf("Expected cancelled caller to get context.Canceled, got: '%v'", err)
	}
	res := <-resB
	if res.err != nil || res.token != "shared" {
		t.Fatalf("Expected token 'shared' for live caller, got: '%v' '%v'", res.token, res.err)
	}

	// обновлённый токен переиспользуется без нового запроса
	if token, err := manager.Token(context.Background()); err != nil || token != "shared" {
		t.Errorf("Expected cached token 'shared', got: '%v' '%v'", token, err)
	}
}

func TestTokenManager_RefreshTimeout(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	mockHTTPClient := mocks.NewMockHTTPClient(ctrl)

	mockHTTPClient.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		<-req.Context().Done()
		return nil, req.Context().Err()
	})

	manager := newTestTokenManager(mockHTTPClient, time.Now())
	manager.timeout = 20 * time.Millisecond

	_, err := manager.Token(context.Background())
	var authErr *AuthError
	if !errors.As(err, &authErr) || !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Expected AuthError with deadline, got: '%v'", err)
	}
	if cached := manager.current.Load(); cached != nil {
		t.Errorf("Expected no cached token, got: '%v'", cached.Value)
	}
}

func TestTokenManager_ShortLivedTokenStaysValid(t *testing.T) {
	now := time.Now()
	manager := newTestTokenManager(nil, now)
	manager.current.Store(&models.AccessToken{Value: "short", IssuedAt: now.Add(-10 * time.Second), ExpiresAt: now.Add(50 * time.Second)})

	token, err := manager.Token(context.Background())
	if err != nil || token != "short" {
		t.Errorf("Expected cached short-lived token, got: '%v' '%v'", token, err)
	}

	manager.Invalidate()
	if manager.current.Load() != nil {
		t.Errorf("Expected token to be dropped")
	}
}
