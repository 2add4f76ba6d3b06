/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package xbase

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ant0ine/go-json-rest/rest"
	"github.com/stretchr/testify/assert"
)

type echoParams struct {
	Name string `json:"name"`
}

func mockHTTP(t *testing.T) *httptest.Server {
	api := rest.NewApi()
	router, err := rest.MakeRouter(
		rest.Get("/test/getok", func(w rest.ResponseWriter, r *rest.Request) {
			w.WriteJson(&echoParams{Name: "ok"})
		}),
		rest.Post("/test/echo", mockEchoHandler),
		rest.Put("/test/echo", mockEchoHandler),
	)
	assert.Nil(t, err)
	api.SetApp(router)
	return httptest.NewServer(api.MakeHandler())
}

func mockEchoHandler(w rest.ResponseWriter, r *rest.Request) {
	p := echoParams{}
	if err := r.DecodeJsonPayload(&p); err != nil {
		rest.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteJson(&p)
}

func TestHTTPGet(t *testing.T) {
	svr := mockHTTP(t)
	defer svr.Close()

	code, body, err := HTTPGet(svr.URL + "/test/getok")
	assert.Nil(t, err)
	assert.Equal(t, 200, code)
	assert.Equal(t, `{"name":"ok"}`, body)

	code, _, err = HTTPGet(svr.URL + "/test/notfound")
	assert.Nil(t, err)
	assert.Equal(t, 404, code)
}

func TestHTTPPostPut(t *testing.T) {
	svr := mockHTTP(t)
	defer svr.Close()

	{
		code, body, err := HTTPPost(svr.URL+"/test/echo", &echoParams{Name: "post"})
		assert.Nil(t, err)
		assert.Equal(t, 200, code)
		assert.Equal(t, `{"name":"post"}`, body)
	}

	{
		code, body, err := HTTPPut(svr.URL+"/test/echo", &echoParams{Name: "put"})
		assert.Nil(t, err)
		assert.Equal(t, 200, code)
		assert.Equal(t, `{"name":"put"}`, body)
	}

	{
		code, _, err := HTTPPut(svr.URL+"/test/echo", nil)
		assert.Nil(t, err)
		assert.Equal(t, 500, code)
	}
}

func TestHTTPError(t *testing.T) {
	_, _, err := HTTPGet("http://127.0.0.1:1/test")
	assert.NotNil(t, err)

	_, _, err = HTTPPut("http://127.0.0.1:1/test", make(chan int))
	assert.NotNil(t, err)
}
