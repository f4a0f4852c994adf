package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/noah-isme/student-portal-api/pkg/upstream"
)

type listCall struct {
	docType string
	query   upstream.ListQuery
}

type stubUpstream struct {
	mu        sync.Mutex
	docs      map[string]json.RawMessage
	lists     map[string]json.RawMessage
	errs      map[string]error
	getCalls  []string
	listCalls []listCall
}

func newStubUpstream() *stubUpstream {
	return &stubUpstream{
		docs:  make(map[string]json.RawMessage),
		lists: make(map[string]json.RawMessage),
		errs:  make(map[string]error),
	}
}

func (s *stubUpstream) GetDoc(ctx context.Context, docType, name string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls = append(s.getCalls, docType+"/"+name)
	if err := s.errs[docType]; err != nil {
		return nil, err
	}
	doc, ok := s.docs[docType+"/"+name]
	if !ok {
		return nil, &upstream.StatusError{DocType: docType, StatusCode: 404, Body: []byte(`{"exc_type":"DoesNotExistError"}`)}
	}
	return doc, nil
}

func (s *stubUpstream) ListDocs(ctx context.Context, docType string, q upstream.ListQuery) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls = append(s.listCalls, listCall{docType: docType, query: q})
	if err := s.errs[docType]; err != nil {
		return nil, err
	}
	if data, ok := s.lists[docType]; ok {
		return data, nil
	}
	return json.RawMessage("[]"), nil
}

func (s *stubUpstream) lastList() listCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.listCalls) == 0 {
		return listCall{}
	}
	return s.listCalls[len(s.listCalls)-1]
}
