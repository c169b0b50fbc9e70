package tests

import (
	"fmt"
	"testing"
)

// MessageInfo represents a chat message
type MessageInfo struct {
	MsgId      string `json:"msg_id"`
	SenderId   string `json:"sender_id"`
	ReceiverId string `json:"receiver_id"`
	Content    string `json:"content"`
	CreatedAt  int64  `json:"created_at"`
}

// ConversationInfo represents a full conversation with its messages
type ConversationInfo struct {
	ConvId    string        `json:"conv_id"`
	CreatorId string        `json:"creator_id"`
	PeerId    string        `json:"peer_id"`
	Name      string        `json:"name"`
	Messages  []MessageInfo `json:"messages"`
}

// OverviewInfo represents one user's view of a conversation
type OverviewInfo struct {
	OverviewId   string      `json:"overview_id"`
	LinkedConvId string      `json:"linked_conv_id"`
	Name         string      `json:"name"`
	LastMsg      MessageInfo `json:"last_msg"`
	UnreadCount  int64       `json:"unread_count"`
	OwnerId      string      `json:"owner_id"`
	PeerId       string      `json:"peer_id"`
}

// CreateConversationRequest represents create conversation request
type CreateConversationRequest struct {
	OtherUserId string `json:"other_user_id"`
	Name        string `json:"name"`
}

// SendMessageRequest represents send message request
type SendMessageRequest struct {
	ConvId     string `json:"conv_id"`
	ReceiverId string `json:"receiver_id"`
	Content    string `json:"content"`
}

// MarkReadRequest represents mark read request
type MarkReadRequest struct {
	ConvId string `json:"conv_id"`
}

// CreateConversationAndGetId creates a conversation and returns its id
func CreateConversationAndGetId(t *testing.T, client *APIClient, otherUserId, name string) string {
	t.Helper()
	resp, err := client.POST("/conversation/create", CreateConversationRequest{
		OtherUserId: otherUserId,
		Name:        name,
	})
	if err != nil {
		t.Fatalf("create conversation failed: %v", err)
	}
	AssertSuccess(t, resp, "create conversation should succeed")

	var result map[string]string
	if err := resp.ParseData(&result); err != nil {
		t.Fatalf("parse create conversation response failed: %v", err)
	}
	if result["conv_id"] == "" {
		t.Fatal("expected non-empty conv_id")
	}
	return result["conv_id"]
}

// findOverview finds a user's overview row for a conversation
func findOverview(t *testing.T, client *APIClient, convId string) *OverviewInfo {
	t.Helper()
	resp, err := client.GET("/conversation/list")
	if err != nil {
		t.Fatalf("get conversation list failed: %v", err)
	}
	AssertSuccess(t, resp, "get conversation list should succeed")

	var overviews []OverviewInfo
	if err := resp.ParseData(&overviews); err != nil {
		t.Fatalf("parse overviews failed: %v", err)
	}
	for i := range overviews {
		if overviews[i].LinkedConvId == convId {
			return &overviews[i]
		}
	}
	return nil
}

func TestConversation_Create(t *testing.T) {
	user1Id := generateUserId("conv_user1")
	user2Id := generateUserId("conv_user2")
	client1, _ := RegisterAndLogin(t, user1Id, "Conv User 1", "password123")
	client2, _ := RegisterAndLogin(t, user2Id, "Conv User 2", "password123")

	convId := CreateConversationAndGetId(t, client1, user2Id, "Math Help")

	t.Run("both users get an overview row", func(t *testing.T) {
		ov1 := findOverview(t, client1, convId)
		if ov1 == nil {
			t.Fatal("creator has no overview for the conversation")
		}
		if ov1.PeerId != user2Id {
			t.Errorf("expected creator peer=%s, got %s", user2Id, ov1.PeerId)
		}
		if ov1.UnreadCount != 0 {
			t.Errorf("expected unread_count=0, got %d", ov1.UnreadCount)
		}

		ov2 := findOverview(t, client2, convId)
		if ov2 == nil {
			t.Fatal("other user has no overview for the conversation")
		}
		if ov2.PeerId != user1Id {
			t.Errorf("expected other peer=%s, got %s", user1Id, ov2.PeerId)
		}
	})

	t.Run("create again returns the same conversation", func(t *testing.T) {
		again := CreateConversationAndGetId(t, client1, user2Id, "Math Help")
		if again != convId {
			t.Errorf("expected conv_id=%s, got %s", convId, again)
		}
	})

	t.Run("create from the other side is deduplicated", func(t *testing.T) {
		again := CreateConversationAndGetId(t, client2, user1Id, "Math Help")
		if again != convId {
			t.Errorf("expected conv_id=%s, got %s", convId, again)
		}
	})

	t.Run("create with self is rejected", func(t *testing.T) {
		resp, err := client1.POST("/conversation/create", CreateConversationRequest{
			OtherUserId: user1Id,
			Name:        "Self Chat",
		})
		if err != nil {
			t.Fatalf("create conversation failed: %v", err)
		}
		AssertError(t, resp, 3002, "should reject self conversation")
	})
}

func TestConversation_SendMessage(t *testing.T) {
	user1Id := generateUserId("msg_user1")
	user2Id := generateUserId("msg_user2")
	client1, _ := RegisterAndLogin(t, user1Id, "Msg User 1", "password123")
	client2, _ := RegisterAndLogin(t, user2Id, "Msg User 2", "password123")

	convId := CreateConversationAndGetId(t, client1, user2Id, "Physics Help")

	t.Run("receiver unread grows, sender unread stays zero", func(t *testing.T) {
		for i := 0; i < 3; i++ {
			resp, err := client1.POST("/msg/send", SendMessageRequest{
				ConvId:     convId,
				ReceiverId: user2Id,
				Content:    fmt.Sprintf("Message %d", i+1),
			})
			if err != nil {
				t.Fatalf("send message failed: %v", err)
			}
			AssertSuccess(t, resp, "send message should succeed")
		}

		ov2 := findOverview(t, client2, convId)
		if ov2 == nil {
			t.Fatal("receiver has no overview")
		}
		if ov2.UnreadCount != 3 {
			t.Errorf("expected receiver unread_count=3, got %d", ov2.UnreadCount)
		}
		if ov2.LastMsg.Content != "Message 3" {
			t.Errorf("expected last_msg=Message 3, got %s", ov2.LastMsg.Content)
		}

		ov1 := findOverview(t, client1, convId)
		if ov1 == nil {
			t.Fatal("sender has no overview")
		}
		if ov1.UnreadCount != 0 {
			t.Errorf("expected sender unread_count=0, got %d", ov1.UnreadCount)
		}
		if ov1.LastMsg.Content != "Message 3" {
			t.Errorf("expected last_msg=Message 3, got %s", ov1.LastMsg.Content)
		}
	})

	t.Run("reply resets the replier's unread", func(t *testing.T) {
		resp, err := client2.POST("/msg/send", SendMessageRequest{
			ConvId:     convId,
			ReceiverId: user1Id,
			Content:    "Got it, thanks!",
		})
		if err != nil {
			t.Fatalf("send message failed: %v", err)
		}
		AssertSuccess(t, resp, "send message should succeed")

		ov2 := findOverview(t, client2, convId)
		if ov2.UnreadCount != 0 {
			t.Errorf("expected replier unread_count=0, got %d", ov2.UnreadCount)
		}

		ov1 := findOverview(t, client1, convId)
		if ov1.UnreadCount != 1 {
			t.Errorf("expected recipient unread_count=1, got %d", ov1.UnreadCount)
		}
	})

	t.Run("messages are stored in order", func(t *testing.T) {
		resp, err := client1.GET(fmt.Sprintf("/conversation/info?conv_id=%s", convId))
		if err != nil {
			t.Fatalf("get conversation failed: %v", err)
		}
		AssertSuccess(t, resp, "get conversation should succeed")

		var conv ConversationInfo
		if err := resp.ParseData(&conv); err != nil {
			t.Fatalf("parse conversation failed: %v", err)
		}

		if len(conv.Messages) != 4 {
			t.Fatalf("expected 4 messages, got %d", len(conv.Messages))
		}
		if conv.Messages[0].Content != "Message 1" {
			t.Errorf("expected first message=Message 1, got %s", conv.Messages[0].Content)
		}
		if conv.Messages[3].Content != "Got it, thanks!" {
			t.Errorf("expected last message=Got it, thanks!, got %s", conv.Messages[3].Content)
		}
	})

	t.Run("send to unknown conversation fails", func(t *testing.T) {
		resp, err := client1.POST("/msg/send", SendMessageRequest{
			ConvId:     "no_such_conv",
			ReceiverId: user2Id,
			Content:    "hello?",
		})
		if err != nil {
			t.Fatalf("send message failed: %v", err)
		}
		AssertError(t, resp, 3001, "should return conversation not found")
	})

	t.Run("outsider cannot read the conversation", func(t *testing.T) {
		outsiderId := generateUserId("msg_outsider")
		outsider, _ := RegisterAndLogin(t, outsiderId, "Outsider", "password123")

		resp, err := outsider.GET(fmt.Sprintf("/conversation/info?conv_id=%s", convId))
		if err != nil {
			t.Fatalf("get conversation failed: %v", err)
		}
		AssertError(t, resp, 1006, "should return no permission")
	})

	t.Run("outsider cannot send into the conversation", func(t *testing.T) {
		outsiderId := generateUserId("msg_injector")
		outsider, _ := RegisterAndLogin(t, outsiderId, "Injector", "password123")

		before := findOverview(t, client2, convId)

		resp, err := outsider.POST("/msg/send", SendMessageRequest{
			ConvId:     convId,
			ReceiverId: user2Id,
			Content:    "injected",
		})
		if err != nil {
			t.Fatalf("send message failed: %v", err)
		}
		AssertError(t, resp, 1006, "should return no permission")

		after := findOverview(t, client2, convId)
		if after.UnreadCount != before.UnreadCount {
			t.Errorf("unread count moved on a rejected send: before=%d after=%d",
				before.UnreadCount, after.UnreadCount)
		}
		if after.LastMsg.Content == "injected" {
			t.Error("rejected message leaked into the overview")
		}
	})

	t.Run("receiver must be the conversation peer", func(t *testing.T) {
		strangerId := generateUserId("msg_stranger")
		RegisterAndLogin(t, strangerId, "Stranger", "password123")

		resp, err := client1.POST("/msg/send", SendMessageRequest{
			ConvId:     convId,
			ReceiverId: strangerId,
			Content:    "misrouted",
		})
		if err != nil {
			t.Fatalf("send message failed: %v", err)
		}
		AssertError(t, resp, 1006, "should return no permission")
	})
}

func TestConversation_MarkRead(t *testing.T) {
	user1Id := generateUserId("markread_user1")
	user2Id := generateUserId("markread_user2")
	client1, _ := RegisterAndLogin(t, user1Id, "MarkRead User 1", "password123")
	client2, _ := RegisterAndLogin(t, user2Id, "MarkRead User 2", "password123")

	convId := CreateConversationAndGetId(t, client1, user2Id, "Chemistry Help")

	for i := 0; i < 5; i++ {
		resp, err := client1.POST("/msg/send", SendMessageRequest{
			ConvId:     convId,
			ReceiverId: user2Id,
			Content:    fmt.Sprintf("Message %d", i+1),
		})
		if err != nil {
			t.Fatalf("send message failed: %v", err)
		}
		AssertSuccess(t, resp, "send message should succeed")
	}

	t.Run("mark read clears unread count", func(t *testing.T) {
		ov2 := findOverview(t, client2, convId)
		if ov2.UnreadCount != 5 {
			t.Fatalf("expected unread_count=5 before mark read, got %d", ov2.UnreadCount)
		}

		resp, err := client2.POST("/conversation/mark_read", MarkReadRequest{ConvId: convId})
		if err != nil {
			t.Fatalf("mark read failed: %v", err)
		}
		AssertSuccess(t, resp, "mark read should succeed")

		ov2 = findOverview(t, client2, convId)
		if ov2.UnreadCount != 0 {
			t.Errorf("expected unread_count=0 after mark read, got %d", ov2.UnreadCount)
		}
		if ov2.LastMsg.Content != "Message 5" {
			t.Errorf("mark read should keep last_msg, got %s", ov2.LastMsg.Content)
		}
	})

	t.Run("mark read without a conversation is a no-op", func(t *testing.T) {
		resp, err := client2.POST("/conversation/mark_read", MarkReadRequest{ConvId: "no_such_conv"})
		if err != nil {
			t.Fatalf("mark read failed: %v", err)
		}
		AssertSuccess(t, resp, "mark read should succeed even without an overview row")
	})
}

func TestConversation_Delete(t *testing.T) {
	user1Id := generateUserId("del_user1")
	user2Id := generateUserId("del_user2")
	client1, _ := RegisterAndLogin(t, user1Id, "Del User 1", "password123")
	client2, _ := RegisterAndLogin(t, user2Id, "Del User 2", "password123")

	convId := CreateConversationAndGetId(t, client1, user2Id, "History Help")

	resp, err := client1.POST("/msg/send", SendMessageRequest{
		ConvId:     convId,
		ReceiverId: user2Id,
		Content:    "see you tomorrow",
	})
	if err != nil {
		t.Fatalf("send message failed: %v", err)
	}
	AssertSuccess(t, resp, "send message should succeed")

	t.Run("delete removes deleter row and leaves a tombstone for the peer", func(t *testing.T) {
		resp, err := client1.DELETE(fmt.Sprintf("/conversation/delete?conv_id=%s", convId))
		if err != nil {
			t.Fatalf("delete conversation failed: %v", err)
		}
		AssertSuccess(t, resp, "delete should succeed")

		if ov := findOverview(t, client1, convId); ov != nil {
			t.Error("deleter should have no overview row left")
		}

		ov2 := findOverview(t, client2, convId)
		if ov2 == nil {
			t.Fatal("peer should keep an overview row")
		}
		if ov2.LastMsg.SenderId != "system" {
			t.Errorf("expected tombstone sender=system, got %s", ov2.LastMsg.SenderId)
		}
		if ov2.UnreadCount != 0 {
			t.Errorf("expected tombstone unread_count=0, got %d", ov2.UnreadCount)
		}
	})

	t.Run("conversation is gone after delete", func(t *testing.T) {
		resp, err := client1.GET(fmt.Sprintf("/conversation/info?conv_id=%s", convId))
		if err != nil {
			t.Fatalf("get conversation failed: %v", err)
		}
		AssertError(t, resp, 3001, "should return conversation not found")
	})
}
