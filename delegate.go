package yootles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

/*
Delegate talks to the remote compute service that computed balances before
this package did. It answers a form POST with a field "ledger" with:

	{
	    "status": "success",
	    "data": {
	        "balances": {"alice": -52.34, "bob": 52.34},
	        "interestRate": 0.05,
	        "lastCalculated": "2024-03-19T10:00:00Z"
	    },
	    "timestamp": "2024-03-19T10:00:00Z"
	}

or {"status": "error", "error": "..."}.
*/
type Delegate struct {
	URL     string
	Client  *http.Client  // http.DefaultClient if nil
	Timeout time.Duration // per attempt, no timeout if zero
	Retries int           // additional attempts after a transport failure
}

// errRemote is a failure reported by the service itself, retrying won't help.
var errRemote = errors.New("compute service error")

// Balances asks the service for the balances of the ledger source text.
func (d Delegate) Balances(ctx context.Context, text string) (map[string]decimal.Decimal, error) {
	if text == "" {
		return nil, errors.New("ledger content is required")
	}
	var errs error
	for attempt := 0; attempt <= d.Retries; attempt++ {
		balances, err := d.balances(ctx, text)
		if err == nil {
			return balances, nil
		}
		errs = errors.Join(errs, fmt.Errorf("attempt %d: %w", attempt+1, err))
		if errors.Is(err, errRemote) || ctx.Err() != nil {
			break
		}
		log.Printf("compute service attempt %d failed: %v", attempt+1, err)
	}
	return nil, errs
}

func (d Delegate) balances(ctx context.Context, text string) (map[string]decimal.Decimal, error) {
	if d.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.Timeout)
		defer cancel()
	}
	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}

	form := url.Values{"ledger": {text}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.URL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cannot http POST %v%v: %v", resp.Request.URL.Host, resp.Request.URL.Path, resp.Status)
	}

	var jobj any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&jobj); err != nil {
		return nil, fmt.Errorf("invalid compute service response: %w", err)
	}

	status, err := jsonpath.Get("$.status", jobj)
	if err != nil {
		return nil, fmt.Errorf("invalid compute service response: %w", err)
	}
	if status != "success" {
		msg, _ := jsonpath.Get("$.error", jobj)
		return nil, fmt.Errorf("%w: %v", errRemote, msg)
	}

	jval, err := jsonpath.Get("$.data.balances", jobj)
	if err != nil {
		return nil, fmt.Errorf("%w: no balances: %w", errRemote, err)
	}
	jmap, ok := jval.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: balances is not an object but %T", errRemote, jval)
	}
	balances := make(map[string]decimal.Decimal, len(jmap))
	for id, v := range jmap {
		n, ok := v.(json.Number)
		if !ok {
			return nil, fmt.Errorf("%w: balance of %q is not a number: %v", errRemote, id, v)
		}
		b, err := decimal.NewFromString(n.String())
		if err != nil {
			return nil, fmt.Errorf("%w: balance of %q: %w", errRemote, id, err)
		}
		balances[id] = b
	}
	return balances, nil
}

// Difference is an account whose balance differs between two computations.
type Difference struct {
	ID            string
	Local, Remote decimal.Decimal
}

// CompareBalances returns the accounts whose balance, rounded to cents,
// differ between the ledger and remote, sorted by id. An account missing on
// one side counts as a zero balance there.
func CompareBalances(l *Ledger, remote map[string]decimal.Decimal) []Difference {
	local := make(map[string]decimal.Decimal, len(l.Accounts))
	for _, a := range l.Accounts {
		local[a.ID] = a.Balance
	}
	var ids []string
	for id := range local {
		ids = append(ids, id)
	}
	for id := range remote {
		if _, ok := local[id]; !ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)

	var diffs []Difference
	for _, id := range ids {
		lb, rb := round(local[id]), round(remote[id])
		if !lb.Equal(rb) {
			diffs = append(diffs, Difference{ID: id, Local: lb, Remote: rb})
		}
	}
	return diffs
}
