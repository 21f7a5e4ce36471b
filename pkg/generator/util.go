package generator

import (
	"errors"
	"iter"

	"google.golang.org/genai"
)

// errEmptyStream はストリームが1チャンクも返さなかったことを示します。
var errEmptyStream = errors.New("empty response stream from Gemini")

// collectStream はストリームのチャンクを1つのレスポンスにまとめます。
// 画像はどのチャンクに含まれていても最初のものを採用し、終了理由は最後のチャンクのものを使います。
func collectStream(seq iter.Seq2[*genai.GenerateContentResponse, error]) (*genai.GenerateContentResponse, error) {
	var (
		image *genai.Part
		last  *genai.GenerateContentResponse
	)
	for chunk, err := range seq {
		if err != nil {
			return nil, err
		}
		if chunk == nil {
			continue
		}
		last = chunk
		if image == nil && len(chunk.Candidates) > 0 {
			image = findInlineImage(chunk.Candidates[0])
		}
	}
	if last == nil {
		return nil, errEmptyStream
	}
	if image == nil {
		return last, nil
	}

	merged := &genai.Candidate{Content: &genai.Content{Role: "model", Parts: []*genai.Part{image}}}
	if len(last.Candidates) > 0 {
		merged.FinishReason = last.Candidates[0].FinishReason
	}
	return &genai.GenerateContentResponse{
		Candidates:     []*genai.Candidate{merged},
		PromptFeedback: last.PromptFeedback,
	}, nil
}

// findInlineImage は候補のパーツを先頭から走査し、データを持つ最初のインライン画像を返します。
func findInlineImage(candidate *genai.Candidate) *genai.Part {
	if candidate == nil || candidate.Content == nil {
		return nil
	}
	for _, part := range candidate.Content.Parts {
		if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
			return part
		}
	}
	return nil
}

func isSafetyReason(reason string) bool {
	_, ok := safetyFinishReasons[reason]
	return ok
}

// blockReason はプロンプト自体がブロックされた場合にその理由を返します。
func blockReason(resp *genai.GenerateContentResponse) string {
	if resp.PromptFeedback == nil {
		return ""
	}
	reason := string(resp.PromptFeedback.BlockReason)
	if reason == "BLOCKED_REASON_UNSPECIFIED" {
		return ""
	}
	return reason
}
