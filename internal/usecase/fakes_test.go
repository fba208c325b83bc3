package usecase

import (
	"context"

	"github.com/ConferInc/usda-mapping-agent/internal/domain"
)

// fakeUSDAClient is a scripted domain.USDAClient for exercising C5/C8 without
// a network call.
type fakeUSDAClient struct {
	searchByDataType map[string][]domain.SearchFoodItem
	searchErr        error
	details          map[int]*domain.FoodDetail
	detailsErr       map[int]error
	searchCalls      int
	detailCalls      int
}

func (f *fakeUSDAClient) Search(ctx context.Context, query string, pageSize int, dataTypes []string) ([]domain.SearchFoodItem, error) {
	f.searchCalls++
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	key := tierKey(dataTypes)
	return f.searchByDataType[key], nil
}

func (f *fakeUSDAClient) GetDetails(ctx context.Context, fdcID int) (*domain.FoodDetail, error) {
	f.detailCalls++
	if err, ok := f.detailsErr[fdcID]; ok {
		return nil, err
	}
	if d, ok := f.details[fdcID]; ok {
		return d, nil
	}
	return nil, nil
}

func tierKey(dataTypes []string) string {
	if len(dataTypes) == 0 {
		return "unfiltered"
	}
	key := ""
	for _, dt := range dataTypes {
		key += dt + "|"
	}
	return key
}

// fakeLLMClient is a scripted domain.LLMClient.
type fakeLLMClient struct {
	available bool
	responses []string
	errs      []error
	calls     int
}

func (f *fakeLLMClient) Chat(ctx context.Context, messages []domain.ChatMessage, temperature float32, wantJSON bool) (string, error) {
	idx := f.calls
	f.calls++
	var resp string
	var err error
	if idx < len(f.responses) {
		resp = f.responses[idx]
	}
	if idx < len(f.errs) {
		err = f.errs[idx]
	}
	return resp, err
}

func (f *fakeLLMClient) Available() bool {
	return f.available
}
