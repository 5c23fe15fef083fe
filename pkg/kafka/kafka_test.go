package kafka

import "testing"

func TestProducerConfigIsFireAndForget(t *testing.T) {
	config := producerConfig()

	// Nothing reads the success channel, so it must stay disabled or
	// the async producer eventually blocks every publish.
	if config.Producer.Return.Successes {
		t.Error("success returns must be disabled for an unread channel")
	}
	if !config.Producer.Return.Errors {
		t.Error("error returns must stay enabled so failures get logged")
	}
}
