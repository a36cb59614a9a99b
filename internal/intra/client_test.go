package intra

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/credit-strategy/pkg/config"
	apperrors "github.com/noah-isme/credit-strategy/pkg/errors"
)

func testClient(baseURL string) *Client {
	return NewClient(config.IntraConfig{
		BaseURL:      baseURL,
		Cookie:       "token",
		Location:     "FR/LYN",
		Course:       "bachelor/classic",
		ScholarYears: []string{"2024"},
		Timeout:      5 * time.Second,
		MaxRetries:   3,
		RetryDelay:   time.Millisecond,
	}, nil)
}

func TestNewClientWrapsBareToken(t *testing.T) {
	c := testClient("http://example.invalid")
	assert.Equal(t, "user=token; gdpr=1", c.cookie)

	full := NewClient(config.IntraConfig{Cookie: "user=abc; gdpr=1"}, nil)
	assert.Equal(t, "user=abc; gdpr=1", full.cookie)
}

func TestListModulesSendsFilterQuery(t *testing.T) {
	var gotQuery, gotCookie string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotCookie = r.Header.Get("Cookie")
		w.Write([]byte(`{"items":[
			{"id":1,"code":"G-AIA-400","codeinstance":"LYN-5-1","scolaryear":"2024","credits":"5","instance_location":"FR/LYN","semester":5,"title":"ML"},
			{"id":2,"code":"","codeinstance":"LYN-5-1","semester":5},
			{"id":3,"code":"G-SEC-300","codeinstance":"LYN-5-1","scolaryear":2024,"credits":3,"instance_location":"FR/LYN","semester":6,"title":"Sec"}
		]}`))
	}))
	defer srv.Close()

	modules, err := testClient(srv.URL).ListModules(context.Background(), 5)
	require.NoError(t, err)

	// The malformed record (empty code) and the other semester are dropped.
	require.Len(t, modules, 1)
	assert.Equal(t, "G-AIA-400", modules[0].Code)
	assert.Equal(t, 5, modules[0].Credits.Int())
	assert.Equal(t, 2024, modules[0].ScolarYear.Int())

	assert.Contains(t, gotQuery, "location%5B%5D=FR")
	assert.Contains(t, gotQuery, "location%5B%5D=FR%2FLYN")
	assert.Contains(t, gotQuery, "course%5B%5D=bachelor%2Fclassic")
	assert.Contains(t, gotQuery, "scolaryear%5B%5D=2024")
	assert.Equal(t, "user=token; gdpr=1", gotCookie)
}

func TestListModulesSemesterZeroKeepsAll(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[
			{"code":"G-AIA-400","codeinstance":"LYN-5-1","semester":5},
			{"code":"G-SEC-300","codeinstance":"LYN-6-1","semester":6}
		]}`))
	}))
	defer srv.Close()

	modules, err := testClient(srv.URL).ListModules(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, modules, 2)
}

func TestRequestAuthFailureDoesNotRetry(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ListModules(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsAuthorization(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRequestRetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"items":[]}`))
	}))
	defer srv.Close()

	modules, err := testClient(srv.URL).ListModules(context.Background(), 0)
	require.NoError(t, err)
	assert.Empty(t, modules)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestRequestExhaustedIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).ListModules(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, apperrors.IsTransient(err))
}

func TestGetModuleDetailMemoizes(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Write([]byte(`{"title":"ML","credits":"5","student_registered":"1","student_credits":5,
			"activites":[{"title":"Project - Corewar","type_title":"Project","begin":"2025-01-06 09:00:00","end":"2025-01-17"}]}`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	first, err := c.GetModuleDetail(context.Background(), 2024, "G-AIA-400", "LYN-5-1")
	require.NoError(t, err)
	second, err := c.GetModuleDetail(context.Background(), 2024, "G-AIA-400", "LYN-5-1")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	assert.Equal(t, "ML", first.Title)
	assert.Equal(t, 5, first.Credits.Int())
	assert.Equal(t, 1, first.StudentRegistered.Int())
	require.Len(t, first.Activities, 1)
	begin := first.Activities[0].BeginDate()
	require.NotNil(t, begin)
	assert.Equal(t, time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC), *begin)
}

func TestGetModuleDetailMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetModuleDetail(context.Background(), 2024, "G-AIA-400", "LYN-5-1")
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrMalformedRecord.Code, apperrors.FromError(err).Code)
}

func TestGetUserProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"login":"jane.doe@school.eu","title":"Jane Doe","semester":5,
			"studentyear":3,"promo":2027,"credits":"145","gpa":[{"gpa":"3.14"}]}`))
	}))
	defer srv.Close()

	profile, err := testClient(srv.URL).GetUserProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@school.eu", profile.Login)
	assert.Equal(t, 3, profile.StudentYear)
	assert.Equal(t, 145, profile.Credits.Int())
	assert.InDelta(t, 3.14, profile.GPAValue(), 0.001)
}

func TestGetUserProfileMissingLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"title":"Jane Doe"}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetUserProfile(context.Background())
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrMalformedRecord.Code, apperrors.FromError(err).Code)
}
