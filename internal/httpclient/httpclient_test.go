package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconsole/internal/actions"
	"devconsole/internal/fakeapi"
	"devconsole/internal/model"
)

func lookup(t *testing.T, id model.ActionID) actions.Action {
	t.Helper()
	a, ok := actions.Lookup(id)
	require.True(t, ok)
	return a
}

func TestExecute_SendsHeadersAndBody(t *testing.T) {
	api := fakeapi.New()
	srv := httptest.NewServer(api)
	defer srv.Close()

	d, err := lookup(t, model.Freeze).Build(srv.URL, model.FormState{Serial: "ABC123"},
		model.Inputs{"message": "Hi", "duration": "4", "date": "2024-01-01"})
	require.NoError(t, err)

	res, err := New(time.Second).Execute(context.Background(), "T", d)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "OK", res.StatusText)
	assert.Contains(t, res.ContentType, "application/json")

	calls := api.Calls()
	require.Len(t, calls, 1)
	c := calls[0]
	assert.Equal(t, "freeze", c.Route)
	assert.Equal(t, http.MethodPut, c.Method)
	assert.Equal(t, "/api/device/ABC123/freeze", c.Path)
	assert.Equal(t, "Bearer T", c.Authorization)
	assert.Equal(t, "application/json", c.ContentType)
	assert.JSONEq(t, `{"message":"Hi","duration":4,"date":"2024-01-01"}`, c.Body)
}

func TestExecute_HeadersOnGetWithoutBody(t *testing.T) {
	api := fakeapi.New()
	srv := httptest.NewServer(api)
	defer srv.Close()

	d, err := lookup(t, model.GetTags).Build(srv.URL, model.FormState{}, nil)
	require.NoError(t, err)

	_, err = New(0).Execute(context.Background(), "tok", d)
	require.NoError(t, err)

	c := api.Calls()[0]
	assert.Equal(t, "getTags", c.Route)
	assert.Equal(t, "Bearer tok", c.Authorization)
	assert.Equal(t, "application/json", c.ContentType)
	assert.Empty(t, c.Body)
}

func TestExecute_OrderedHeaders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Zeta", "z")
		w.Header().Add("X-Alpha", "a1")
		w.Header().Add("X-Alpha", "a2")
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	defer srv.Close()

	res, err := New(time.Second).Execute(context.Background(), "T",
		model.Descriptor{Method: http.MethodGet, URL: srv.URL})
	require.NoError(t, err)

	assert.Equal(t, http.StatusTeapot, res.StatusCode)
	assert.Equal(t, "I'm a teapot", res.StatusText)
	assert.Equal(t, "short and stout", string(res.Body))

	var names []string
	for _, h := range res.Headers {
		names = append(names, h.Name)
	}
	assert.Equal(t, []string{"content-length", "content-type", "date", "x-alpha", "x-zeta"}, names)
	assert.Contains(t, res.Headers, Header{Name: "x-alpha", Value: "a1, a2"})
}

func TestExecute_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(time.Second).Execute(context.Background(), "T",
		model.Descriptor{Method: http.MethodGet, URL: url + "/api/tags"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "send GET")
}

func TestDispatch_ValidationMakesNoCall(t *testing.T) {
	api := fakeapi.New()
	srv := httptest.NewServer(api)
	defer srv.Close()

	for _, a := range actions.All() {
		if !a.NeedsField(model.FieldSerial) || a.ID == model.GetDeviceStates {
			continue
		}
		_, _, err := Dispatch(context.Background(), New(time.Second), zerolog.Nop(), Call{
			Action: a,
			Creds:  model.Credentials{Endpoint: srv.URL, Token: "T", HasToken: true},
			Form:   model.FormState{Code: "c", State: "s"},
			Inputs: model.Inputs{"token": "t", "tag": "g"},
		})
		assert.ErrorIs(t, err, actions.ErrValidation, a.ID)
	}
	assert.Empty(t, api.Calls())
}

func TestDispatch_NoToken(t *testing.T) {
	api := fakeapi.New()
	srv := httptest.NewServer(api)
	defer srv.Close()

	_, _, err := Dispatch(context.Background(), New(time.Second), zerolog.Nop(), Call{
		Action: lookup(t, model.GetTags),
		Creds:  model.Credentials{Endpoint: srv.URL},
	})
	assert.True(t, errors.Is(err, ErrNoToken))
	assert.Empty(t, api.Calls())
}

func TestDispatch_Success(t *testing.T) {
	api := fakeapi.New()
	srv := httptest.NewServer(api)
	defer srv.Close()

	d, res, err := Dispatch(context.Background(), New(time.Second), zerolog.Nop(), Call{
		Action: lookup(t, model.GetDeviceStates),
		Creds:  model.Credentials{Endpoint: srv.URL, Token: "T", HasToken: true},
		Form:   model.FormState{Serial: "X", State: "Y"},
	})
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/api/devicestate?serialNumber=X&state=Y", d.URL)
	assert.Equal(t, http.StatusOK, res.StatusCode)

	c := api.Calls()[0]
	assert.Equal(t, "getDeviceStates", c.Route)
	assert.Equal(t, "serialNumber=X&state=Y", c.Query)
}

func TestDispatch_Cancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	_, _, err := Dispatch(ctx, New(0), zerolog.Nop(), Call{
		Action: lookup(t, model.GetTags),
		Creds:  model.Credentials{Endpoint: srv.URL, Token: "T", HasToken: true},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "cancelled")
}
