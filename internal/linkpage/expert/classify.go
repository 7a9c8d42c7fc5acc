package expert

import (
	"errors"
	"fmt"
	"net/http"

	openai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"
)

const statusResourceExhausted = "RESOURCE_EXHAUSTED"

// classify marks quota refusals from either SDK with ErrRateLimited and
// leaves every other error as it is.
func classify(err error) error {
	if err == nil || errors.Is(err, ErrRateLimited) {
		return err
	}
	if isRateLimited(err) {
		return fmt.Errorf("%w: %w", ErrRateLimited, err)
	}
	return err
}

// isRateLimited checks typed SDK status first, then the error text of
// whichever form the error arrived in.
func isRateLimited(err error) bool {
	var gemini genai.APIError
	if errors.As(err, &gemini) && geminiLimited(gemini) {
		return true
	}
	var geminiPtr *genai.APIError
	if errors.As(err, &geminiPtr) && geminiPtr != nil && geminiLimited(*geminiPtr) {
		return true
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) &&
		(apiErr.HTTPStatusCode == http.StatusTooManyRequests || IsRateLimitMessage(apiErr.Message)) {
		return true
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return true
	}
	return IsRateLimitMessage(err.Error())
}

func geminiLimited(e genai.APIError) bool {
	return e.Code == http.StatusTooManyRequests || e.Status == statusResourceExhausted || IsRateLimitMessage(e.Message)
}
