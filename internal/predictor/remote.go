package predictor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

// FetchType selects which remote record to request.
type FetchType string

const (
	FetchPersonalBest FetchType = "personalBest"
	FetchGlobalBest   FetchType = "globalBest"
	FetchAll          FetchType = "all"
)

var (
	ErrNoToken     = errors.New("remote: no bearer token set")
	ErrEmptyResult = errors.New("remote: no splits stored for map")
	ErrFetchBusy   = errors.New("remote: a fetch is already in flight")
)

// PendingSave is one finished run waiting for its turn on the wire. The
// split store owns it exclusively until it has been transmitted or abandoned.
type PendingSave struct {
	ID      string
	MapID   string
	Record  SplitRecord
	RunDate time.Time
}

// FetchRequest is a single in-flight remote fetch. The transport completes it
// from its own goroutine; the tick loop discovers completion by polling Done
// and only then reads the result, so no locking is needed beyond the flag.
type FetchRequest struct {
	MapID string
	Type  FetchType

	done   int32
	record SplitRecord
	err    error
}

func (r *FetchRequest) Done() bool {
	return atomic.LoadInt32(&r.done) == 1
}

// Result must only be called once Done reports true.
func (r *FetchRequest) Result() (SplitRecord, error) {
	return r.record, r.err
}

func (r *FetchRequest) complete(record SplitRecord, err error) {
	r.record = record
	r.err = err
	atomic.StoreInt32(&r.done, 1)
}

// SaveRequest is a single in-flight remote save, completed the same way.
type SaveRequest struct {
	Save PendingSave

	done int32
	err  error
}

func (r *SaveRequest) Done() bool {
	return atomic.LoadInt32(&r.done) == 1
}

func (r *SaveRequest) Err() error {
	return r.err
}

func (r *SaveRequest) complete(err error) {
	r.err = err
	atomic.StoreInt32(&r.done, 1)
}

// RemoteClient starts non-blocking requests against the remote split
// service. The caller never blocks on a request; it polls the returned
// handles from the tick loop.
type RemoteClient interface {
	StartFetch(mapID string, fetchType FetchType) *FetchRequest
	StartSave(save PendingSave) *SaveRequest
	SetToken(token string)
}

type saveSplitsRequest struct {
	MapID           string  `json:"mapId"`
	CheckpointTimes []int64 `json:"checkpointTimes"`
	TotalTime       int64   `json:"totalTime"`
	RunDate         string  `json:"runDate,omitempty"`
}

type fetchSplitsResponse struct {
	MapID           string  `json:"mapId"`
	CheckpointTimes []int64 `json:"checkpointTimes"`
	TotalTime       int64   `json:"totalTime"`
}

// HTTPSplitClient is the JSON transport for the remote split service. It
// attaches whatever bearer token the authentication collaborator last
// supplied; it never refreshes or validates the token itself.
type HTTPSplitClient struct {
	baseURL string
	client  *http.Client
	logger  Logger

	mutex sync.RWMutex
	token string
}

func NewHTTPSplitClient(baseURL string, logger Logger) *HTTPSplitClient {
	return &HTTPSplitClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: time.Second * 10},
		logger:  logger,
	}
}

func (c *HTTPSplitClient) SetToken(token string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.token = token
}

func (c *HTTPSplitClient) currentToken() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return c.token
}

func (c *HTTPSplitClient) StartFetch(mapID string, fetchType FetchType) *FetchRequest {
	request := &FetchRequest{MapID: mapID, Type: fetchType}

	go func() {
		record, err := c.fetch(mapID, fetchType)
		request.complete(record, err)
	}()

	return request
}

func (c *HTTPSplitClient) fetch(mapID string, fetchType FetchType) (SplitRecord, error) {
	token := c.currentToken()

	if token == "" {
		return nil, ErrNoToken
	}

	r, err := http.NewRequest(http.MethodGet, fmt.Sprintf("%s/splits/%s", c.baseURL, url.PathEscape(mapID)), nil)

	if err != nil {
		return nil, err
	}

	q := r.URL.Query()
	q.Add("type", string(fetchType))
	r.URL.RawQuery = q.Encode()
	r.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(r)

	if err != nil {
		return nil, errors.Wrap(err, "remote: splits fetch failed")
	}

	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("remote: splits fetch returned status %d", resp.StatusCode)
	}

	body, err := ioutil.ReadAll(resp.Body)

	if err != nil {
		return nil, errors.Wrap(err, "remote: could not read splits payload")
	}

	var payload fetchSplitsResponse

	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrap(err, "remote: malformed splits payload")
	}

	if len(payload.CheckpointTimes) == 0 {
		return nil, ErrEmptyResult
	}

	record := SplitRecord(payload.CheckpointTimes)

	if err := record.Validate(); err != nil {
		return nil, errors.Wrapf(err, "remote: splits payload for map %s", mapID)
	}

	return record, nil
}

func (c *HTTPSplitClient) StartSave(save PendingSave) *SaveRequest {
	request := &SaveRequest{Save: save}

	go func() {
		request.complete(c.save(save))
	}()

	return request
}

func (c *HTTPSplitClient) save(save PendingSave) error {
	token := c.currentToken()

	if token == "" {
		return ErrNoToken
	}

	payload := saveSplitsRequest{
		MapID:           save.MapID,
		CheckpointTimes: []int64(save.Record),
		TotalTime:       save.Record.FinalTime(),
	}

	if !save.RunDate.IsZero() {
		payload.RunDate = save.RunDate.Format(time.RFC3339)
	}

	body, err := json.Marshal(payload)

	if err != nil {
		return errors.Wrap(err, "remote: could not encode splits payload")
	}

	r, err := http.NewRequest(http.MethodPost, c.baseURL+"/splits", bytes.NewReader(body))

	if err != nil {
		return err
	}

	r.Header.Set("Content-Type", "application/json")
	r.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.client.Do(r)

	if err != nil {
		return errors.Wrap(err, "remote: splits save failed")
	}

	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("remote: splits save returned status %d", resp.StatusCode)
	}

	return nil
}
