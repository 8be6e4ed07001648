package core

import (
	"errors"
	"testing"
)

func TestText(t *testing.T) {
	resp := &GenerateResponse{Candidates: []Candidate{{
		Content: Content{Role: "model", Parts: []Part{
			{Text: "CS 101 "},
			{Text: "meets MWF."},
		}},
	}}}
	got, err := resp.Text()
	if err != nil {
		t.Fatal(err)
	}
	if got != "CS 101 meets MWF." {
		t.Errorf("text: %q", got)
	}
}

func TestText_NoContent(t *testing.T) {
	cases := []*GenerateResponse{
		nil,
		{},
		{Candidates: []Candidate{{Content: Content{Role: "model"}}}},
		{Candidates: []Candidate{{Content: Content{Parts: []Part{
			{FunctionCall: &FunctionCall{Name: "enroll_student"}},
		}}}}},
	}
	for i, resp := range cases {
		if _, err := resp.Text(); !errors.Is(err, ErrNoContent) {
			t.Errorf("case %d: expected ErrNoContent, got %v", i, err)
		}
	}
}

func TestFunctionCalls_FirstCandidateOnly(t *testing.T) {
	resp := &GenerateResponse{Candidates: []Candidate{
		{Content: Content{Parts: []Part{
			{Text: "let me check"},
			{FunctionCall: &FunctionCall{Name: "get_holds"}},
		}}},
		{Content: Content{Parts: []Part{
			{FunctionCall: &FunctionCall{Name: "hidden_in_second_candidate"}},
		}}},
	}}
	calls := resp.FunctionCalls()
	if len(calls) != 1 || calls[0].Name != "get_holds" {
		t.Errorf("calls: %+v", calls)
	}
}

func TestFinishReason(t *testing.T) {
	var nilResp *GenerateResponse
	if got := nilResp.FinishReason(); got != "" {
		t.Errorf("nil response: %q", got)
	}
	resp := &GenerateResponse{Candidates: []Candidate{{
		FinishReason: FinishReasonMalformedFunctionCall,
	}}}
	if got := resp.FinishReason(); got != FinishReasonMalformedFunctionCall {
		t.Errorf("finish reason: %q", got)
	}
}
