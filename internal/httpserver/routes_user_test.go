package httpserver

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/medium-blog/internal/store"
)

func TestSignupThenWrite(t *testing.T) {
	e := newTestEnvWithStore(t, store.NewMemoryStore())

	rec, body := e.do(t, http.MethodPost, "/api/v1/user/signup", "",
		`{"email":"ada@example.com","password":"hunter22","name":"Ada"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	tok, ok := body["jwt"].(string)
	require.True(t, ok)
	require.NotEmpty(t, tok)

	rec, body = e.do(t, http.MethodPost, "/api/v1/blog/", tok, `{"title":"hello","content":"world"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, body = e.do(t, http.MethodGet, "/api/v1/blog/1", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	got := body["blog"].(map[string]any)
	assert.Equal(t, map[string]any{"name": "Ada"}, got["author"])
}

func TestSignup_WithoutNameHasNullAuthor(t *testing.T) {
	e := newTestEnvWithStore(t, store.NewMemoryStore())

	_, body := e.do(t, http.MethodPost, "/api/v1/user/signup", "",
		`{"email":"anon@example.com","password":"hunter22"}`)
	tok := body["jwt"].(string)

	e.do(t, http.MethodPost, "/api/v1/blog/", tok, `{"title":"t","content":"c"}`)
	rec, _ := e.do(t, http.MethodGet, "/api/v1/blog/1", tok, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"blog":{"id":1,"title":"t","content":"c","author":{"name":null}}}`, rec.Body.String())
}

func TestSignup_Rejections(t *testing.T) {
	e := newTestEnvWithStore(t, store.NewMemoryStore())
	rec, _ := e.do(t, http.MethodPost, "/api/v1/user/signup", "",
		`{"email":"dup@example.com","password":"hunter22"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	testCases := []struct {
		name string
		body string
		msg  string
	}{
		{name: "duplicate email", body: `{"email":"dup@example.com","password":"hunter22"}`, msg: "Email already in use"},
		{name: "bad email", body: `{"email":"nope","password":"hunter22"}`, msg: "Inputs not correct"},
		{name: "display name email", body: `{"email":"Ada <ada@example.com>","password":"hunter22"}`, msg: "Inputs not correct"},
		{name: "dotless domain", body: `{"email":"ada@localhost","password":"hunter22"}`, msg: "Inputs not correct"},
		{name: "quoted local part", body: `{"email":"\"a b\"@x.com","password":"hunter22"}`, msg: "Inputs not correct"},
		{name: "short password", body: `{"email":"x@example.com","password":"123"}`, msg: "Inputs not correct"},
		{name: "name not a string", body: `{"email":"x@example.com","password":"hunter22","name":5}`, msg: "Inputs not correct"},
		{name: "malformed JSON", body: `{`, msg: "Inputs not correct"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec, body := e.do(t, http.MethodPost, "/api/v1/user/signup", "", tc.body)
			assert.Equal(t, http.StatusLengthRequired, rec.Code)
			assert.Equal(t, tc.msg, body["message"])
		})
	}

	_, err := e.store.FindUserByEmail(context.Background(), "ada@localhost")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSignin(t *testing.T) {
	e := newTestEnvWithStore(t, store.NewMemoryStore())
	rec, _ := e.do(t, http.MethodPost, "/api/v1/user/signup", "",
		`{"email":"ada@example.com","password":"hunter22"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("correct password", func(t *testing.T) {
		rec, body := e.do(t, http.MethodPost, "/api/v1/user/signin", "",
			`{"email":"ada@example.com","password":"hunter22"}`)
		require.Equal(t, http.StatusOK, rec.Code)
		tok := body["jwt"].(string)

		rec, _ = e.do(t, http.MethodGet, "/api/v1/blog/bulk", tok, "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		rec, body := e.do(t, http.MethodPost, "/api/v1/user/signin", "",
			`{"email":"ada@example.com","password":"wrong-one"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Incorrect creds", body["message"])
	})

	t.Run("unknown email", func(t *testing.T) {
		rec, body := e.do(t, http.MethodPost, "/api/v1/user/signin", "",
			`{"email":"who@example.com","password":"hunter22"}`)
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "Incorrect creds", body["message"])
	})

	t.Run("invalid input", func(t *testing.T) {
		rec, body := e.do(t, http.MethodPost, "/api/v1/user/signin", "", `{"email":"ada@example.com"}`)
		assert.Equal(t, http.StatusLengthRequired, rec.Code)
		assert.Equal(t, "Inputs not correct", body["message"])
	})
}
