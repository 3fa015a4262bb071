package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbukum/requester/config"
	"github.com/kbukum/requester/httpclient"
	"github.com/kbukum/requester/requester"
)

// pageParams are sent as query parameters; --query entries of the same
// name take precedence.
type pageParams struct {
	Page    int `url:"page,omitempty"`
	PerPage int `url:"perPage,omitempty"`
}

// apply layers command-line overrides on top of the loaded configuration.
func (f *flags) apply(cfg *config.Config) error {
	if f.url != "" {
		cfg.API.URL = f.url
	}
	if f.timeout > 0 {
		cfg.API.RequestTimeout = f.timeout
	}
	if len(f.headers) == 0 {
		return nil
	}
	headers, err := splitPairs("header", f.headers)
	if err != nil {
		return err
	}
	if cfg.API.Headers == nil {
		cfg.API.Headers = make(map[string]string, len(headers))
	}
	for _, h := range headers {
		cfg.API.Headers[h[0]] = h[1]
	}
	return nil
}

// options builds the call options. release closes any file opened for the
// body and must be called once the call returns.
func (f *flags) options() (requester.Options, func(), error) {
	release := func() {}
	opts := requester.Options{Sudo: f.sudo}

	q, err := parseQuery(f.query)
	if err != nil {
		return opts, release, err
	}
	opts.Query = q
	if f.page > 0 || f.perPage > 0 {
		opts.QueryStruct = pageParams{Page: f.page, PerPage: f.perPage}
	}

	switch {
	case f.data != "":
		v, err := parseData(f.data)
		if err != nil {
			return opts, release, err
		}
		opts.Body = requester.JSON(v)
	case f.body != "":
		path, ok := strings.CutPrefix(f.body, "@")
		if !ok {
			opts.Body = requester.Text(f.body)
			break
		}
		file, err := os.Open(path)
		if err != nil {
			return opts, release, fmt.Errorf("open body: %w", err)
		}
		opts.Body = requester.Raw(file)
		release = func() { _ = file.Close() }
	case len(f.form) > 0 || len(f.files) > 0:
		m, err := parseMultipart(f.form, f.files)
		if err != nil {
			return opts, release, err
		}
		opts.Body = requester.Multipart(m)
	}
	return opts, release, nil
}

// parseQuery turns key=value pairs into query options. A repeated key
// becomes an array.
func parseQuery(pairs []string) (map[string]any, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	kv, err := splitPairs("query", pairs)
	if err != nil {
		return nil, err
	}
	q := make(map[string]any, len(kv))
	for _, p := range kv {
		switch cur := q[p[0]].(type) {
		case nil:
			q[p[0]] = p[1]
		case string:
			q[p[0]] = []string{cur, p[1]}
		case []string:
			q[p[0]] = append(cur, p[1])
		}
	}
	return q, nil
}

// parseData decodes a JSON document given inline or as @path.
func parseData(data string) (any, error) {
	raw := []byte(data)
	if path, ok := strings.CutPrefix(data, "@"); ok {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read data: %w", err)
		}
		raw = b
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("data is not valid JSON: %w", err)
	}
	return v, nil
}

func parseMultipart(form, files []string) (*httpclient.MultipartBody, error) {
	fields, err := splitPairs("form", form)
	if err != nil {
		return nil, err
	}
	paths, err := splitPairs("file", files)
	if err != nil {
		return nil, err
	}

	m := &httpclient.MultipartBody{Fields: make(map[string]string, len(fields))}
	for _, f := range fields {
		m.Fields[f[0]] = f[1]
	}
	for _, p := range paths {
		data, err := os.ReadFile(p[1])
		if err != nil {
			return nil, fmt.Errorf("read file for %s: %w", p[0], err)
		}
		m.Files = append(m.Files, httpclient.FileField{
			FieldName: p[0],
			FileName:  filepath.Base(p[1]),
			Data:      data,
		})
	}
	return m, nil
}

func splitPairs(flag string, pairs []string) ([][2]string, error) {
	out := make([][2]string, 0, len(pairs))
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("--%s %q: expected key=value", flag, p)
		}
		out = append(out, [2]string{k, v})
	}
	return out, nil
}
