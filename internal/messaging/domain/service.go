package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Conversation returns the full thread for a dealer and marks the
	// other side's messages as read.
	Conversation(ctx context.Context, userID snowflake.ID, viewerRole string) ([]DirectMessage, error)
	Overview(ctx context.Context) ([]ConversationSummary, error)
	SendDirect(ctx context.Context, userID snowflake.ID, senderRole, body string) (*DirectMessage, error)

	ListFileMessages(ctx context.Context, fileID, actorID snowflake.ID, isAdmin bool) ([]FileMessage, error)
	AppendFileMessage(ctx context.Context, fileID, senderID snowflake.ID, isAdmin bool, body string) (*FileMessage, error)
}
