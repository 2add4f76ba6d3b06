/*
 * Radon
 *
 * Copyright 2018 The Radon Authors.
 * Code is licensed under the GPLv3.
 *
 */

package xbase

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const (
	httpTimeout = 5 * time.Second
)

func httpDo(method string, url string, payload interface{}) (int, string, error) {
	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, "", errors.WithStack(err)
		}
		body = b
	}

	ctx, cancel := context.WithTimeout(context.Background(), httpTimeout)
	defer cancel()
	req, err := http.NewRequest(method, url, bytes.NewReader(body))
	if err != nil {
		return 0, "", errors.WithStack(err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req.WithContext(ctx))
	if err != nil {
		return 0, "", errors.WithStack(err)
	}
	defer resp.Body.Close()
	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, "", errors.WithStack(err)
	}
	return resp.StatusCode, string(data), nil
}

// HTTPGet does the restful get request, returns the status code and the body.
func HTTPGet(url string) (int, string, error) {
	return httpDo("GET", url, nil)
}

// HTTPPost does the restful post request with the json payload.
func HTTPPost(url string, payload interface{}) (int, string, error) {
	return httpDo("POST", url, payload)
}

// HTTPPut does the restful put request with the json payload.
func HTTPPut(url string, payload interface{}) (int, string, error) {
	return httpDo("PUT", url, payload)
}
