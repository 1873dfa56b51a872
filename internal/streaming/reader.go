// Package streaming содержит буферизованное чтение аудио по HTTP
package streaming

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// userAgent идентифицирует клиент перед сервером
const userAgent = "go-playdeck/1.0"

// client общий HTTP клиент без общего таймаута: поток может читаться долго
var client = &http.Client{
	Transport: &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		IdleConnTimeout:       300 * time.Second,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   2,
		ExpectContinueTimeout: 1 * time.Second,
	},
}

// Reader - буферизованный поток ответа HTTP
type Reader struct {
	reader *bufio.Reader
	resp   *http.Response
}

// NewReader выполняет GET-запрос и возвращает поток тела ответа
func NewReader(ctx context.Context, url string, bufferSize int) (*Reader, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	// Сжатие для аудиопотока бесполезно, а Range позволяет серверу отдавать 206
	req.Header.Set("Accept-Encoding", "identity")
	req.Header.Set("Range", "bytes=0-")
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusPartialContent {
		resp.Body.Close()
		return nil, fmt.Errorf("ошибка HTTP: %s", resp.Status)
	}

	return &Reader{
		reader: bufio.NewReaderSize(resp.Body, bufferSize),
		resp:   resp,
	}, nil
}

// Read реализует интерфейс io.Reader
func (sr *Reader) Read(p []byte) (n int, err error) {
	return sr.reader.Read(p)
}

// Close закрывает соединение
func (sr *Reader) Close() error {
	return sr.resp.Body.Close()
}
