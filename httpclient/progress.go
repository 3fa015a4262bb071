package httpclient

import "io"

// ProgressFunc receives the number of body bytes read so far and the
// expected total (-1 when unknown).
type ProgressFunc func(transferred, total int64)

type progressReader struct {
	io.ReadCloser
	fn    ProgressFunc
	total int64
	read  int64
}

func newProgressReader(body io.ReadCloser, total int64, fn ProgressFunc) io.ReadCloser {
	return &progressReader{ReadCloser: body, fn: fn, total: total}
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.ReadCloser.Read(b)
	if n > 0 {
		p.read += int64(n)
		p.fn(p.read, p.total)
	}
	return n, err
}
