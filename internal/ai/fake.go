package ai

import (
	"context"

	"github.com/ashureev/moodchat/internal/domain"
)

// FakeClient is a canned-response Client for tests and offline development.
// Zero-valued fields fall back to the package defaults, and any Err field
// makes the corresponding call fail.
type FakeClient struct {
	Sentiments   []domain.SentimentResult
	SentimentErr error

	Reply    string
	ReplyErr error

	Trend    TrendAnalysis
	TrendErr error

	Keywords    KeywordSet
	KeywordsErr error

	Summary    ConversationSummary
	SummaryErr error

	MoodGraph    string
	MoodGraphErr error

	Profile    string
	ProfileErr error

	// ReplyRequests records every GenerateReply call in order.
	ReplyRequests []ReplyRequest

	classifyCalls int
}

var _ Client = (*FakeClient)(nil)

// ClassifySentiment returns the queued sentiments in order, repeating the
// last one once the queue is exhausted.
func (f *FakeClient) ClassifySentiment(ctx context.Context, text string) (domain.SentimentResult, error) {
	if f.SentimentErr != nil {
		return domain.SentimentResult{}, f.SentimentErr
	}
	if len(f.Sentiments) == 0 {
		return domain.DefaultSentimentResult(), nil
	}
	i := f.classifyCalls
	if i >= len(f.Sentiments) {
		i = len(f.Sentiments) - 1
	}
	f.classifyCalls++
	return f.Sentiments[i], nil
}

func (f *FakeClient) GenerateReply(ctx context.Context, req ReplyRequest) (string, error) {
	f.ReplyRequests = append(f.ReplyRequests, req)
	if f.ReplyErr != nil {
		return "", f.ReplyErr
	}
	if f.Reply == "" {
		return "Understood.", nil
	}
	return f.Reply, nil
}

func (f *FakeClient) AnalyzeTrend(ctx context.Context, history []domain.SentimentResult) (TrendAnalysis, error) {
	if f.TrendErr != nil {
		return TrendAnalysis{}, f.TrendErr
	}
	return f.Trend.Normalize(), nil
}

func (f *FakeClient) ExtractKeywords(ctx context.Context, conversation []domain.ContextEntry) (KeywordSet, error) {
	if f.KeywordsErr != nil {
		return KeywordSet{}, f.KeywordsErr
	}
	return f.Keywords.Normalize(), nil
}

func (f *FakeClient) Summarize(ctx context.Context, conversation []domain.ContextEntry) (ConversationSummary, error) {
	if f.SummaryErr != nil {
		return ConversationSummary{}, f.SummaryErr
	}
	return f.Summary.Normalize(), nil
}

func (f *FakeClient) RenderMoodGraph(ctx context.Context, history []domain.SentimentResult) (string, error) {
	if f.MoodGraphErr != nil {
		return "", f.MoodGraphErr
	}
	return f.MoodGraph, nil
}

func (f *FakeClient) RenderEmotionProfile(ctx context.Context, history []domain.SentimentResult) (string, error) {
	if f.ProfileErr != nil {
		return "", f.ProfileErr
	}
	return f.Profile, nil
}
