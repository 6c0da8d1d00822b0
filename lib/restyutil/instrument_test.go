package restyutil

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

type memoryOutput struct {
	lock     sync.Mutex
	messages map[string]string
}

func (o *memoryOutput) Write(id string, contents string) {
	o.lock.Lock()
	defer o.lock.Unlock()
	o.messages[id] = contents
}

func TestFormatHeadersRedacts(t *testing.T) {
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("AuthenticationTicket", "secret-ticket")
	headers.Set("Authorization", "Basic dXNlcjpwYXNz")

	formatted := formatHeaders(headers)
	require.NotContains(t, formatted, "secret-ticket")
	require.NotContains(t, formatted, "dXNlcjpwYXNz")
	require.Contains(t, formatted, "Content-Type: application/json")
	require.False(t, strings.HasSuffix(formatted, "\n"))
}

func TestInstrumentClientWritesMessages(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	}))
	defer server.Close()

	out := &memoryOutput{messages: map[string]string{}}
	client := resty.New()
	InstrumentClient(client, "test", nil, out)

	res, err := client.R().
		SetHeader("Content-Type", "application/json").
		SetBody([]byte(`{"hello":"world"}`)).
		Post(server.URL + "/pot")
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, http.StatusTeapot, res.StatusCode())

	message, ok := out.messages["test-1"]
	require.True(t, ok)
	require.Contains(t, message, "POST "+server.URL+"/pot")
	require.Contains(t, message, `{"hello":"world"}`)
	require.Contains(t, message, "418")
	require.Contains(t, message, "short and stout")
}

func TestFilesystemOutputResets(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dump")
	out, err := NewFilesystemOutput(dir)
	if err != nil {
		t.Fatal(err)
	}
	out.Write("vendor-1", "contents")

	out, err = NewFilesystemOutput(dir)
	if err != nil {
		t.Fatal(err)
	}
	out.Write("vendor-2", "other")

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	require.Len(t, entries, 1)
	require.Equal(t, "vendor-2", entries[0].Name())

	contents, err := os.ReadFile(filepath.Join(dir, "vendor-2"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "other", string(contents))
}
