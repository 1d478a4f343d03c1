// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.ChatModel, ai.Embedder,
// and ai.AIProvider for use in unit tests. The mocks let tests run without
// a network connection and keep model output deterministic.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	reply, err := mockProvider.ChatModel().Chat(ctx, []core.Message{core.HumanMessage("hi")})
//
//	// Custom behavior injection
//	mockChat := mock.NewMockChatModel()
//	mockChat.ChatFunc = func(ctx context.Context, msgs []core.Message) (core.Message, error) {
//	    return core.Message{Role: core.RoleAI, Content: "2"}, nil
//	}
//
//	// Check call counts and recorded requests
//	count := mockChat.CallCount()
//	last := mockChat.Calls()[count-1]
//
// # Default Behavior
//
//   - MockChatModel: Echoes the last message back prefixed with "echo: "
//   - MockEmbedder: Returns deterministic unit vectors based on text hash
//   - MockProvider: Aggregates a mock chat model and embedder
package mock
