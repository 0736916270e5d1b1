package domain

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wealthfund/backend/internal/common"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/model"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/errorx"
	"github.com/wealthfund/backend/pkg/ws"
	"github.com/wealthfund/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const maxChatMessageLength = 2000

type ChatDomain interface {
	GetChat(context.Context, *model.GetChatRequest) (*model.GetChatResponse, error)
	SendChatMessage(context.Context, *model.SendChatMessageRequest) (*model.SendChatMessageResponse, error)
	MarkChatAsRead(context.Context, *model.MarkChatAsReadRequest) (*model.MarkChatAsReadResponse, error)
	GetChatSessions(context.Context, *model.GetChatSessionsRequest) (*model.GetChatSessionsResponse, error)
	AdminSendChatMessage(context.Context, *model.AdminSendChatMessageRequest) (*model.SendChatMessageResponse, error)
	AdminMarkChatAsRead(context.Context, *model.AdminMarkChatAsReadRequest) (*model.MarkChatAsReadResponse, error)
	ServeWebsocket(context.Context, *websocket.Conn) error
}

type chatDomain struct {
	chatRepo     repository.ChatRepository
	hub          *ws.Hub
	roleVerifier *common.RoleVerifier
}

func NewChatDomain(chatRepo repository.ChatRepository, hub *ws.Hub) *chatDomain {
	return &chatDomain{
		chatRepo:     chatRepo,
		hub:          hub,
		roleVerifier: common.NewRoleVerifier(),
	}
}

func (d *chatDomain) GetChat(ctx context.Context, req *model.GetChatRequest) (*model.GetChatResponse, error) {
	userID := xcontext.RequestUserID(ctx)
	if err := d.chatRepo.CreateSessionIfNotExists(ctx, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create chat session: %v", err)
		return nil, errorx.Unknown
	}

	session, err := d.chatRepo.GetSession(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get chat session: %v", err)
		return nil, errorx.Unknown
	}

	messages, err := d.chatRepo.GetMessages(ctx, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get chat messages: %v", err)
		return nil, errorx.Unknown
	}

	clientMessages := []model.ChatMessage{}
	for i := range messages {
		clientMessages = append(clientMessages, model.ConvertChatMessage(&messages[i]))
	}

	return &model.GetChatResponse{Session: model.ConvertChatSession(session, clientMessages)}, nil
}

func validateChatMessage(text, imageURL string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" && imageURL == "" {
		return "", errorx.New(errorx.BadRequest, "Message must have text or an image")
	}

	if len([]rune(text)) > maxChatMessageLength {
		return "", errorx.New(errorx.BadRequest, "Message must be at most %d characters", maxChatMessageLength)
	}

	return text, nil
}

// sendMessage stores the message and bumps the unread counter of the side
// which did not send it. The message is pushed to the session owner and to
// every connected admin.
func (d *chatDomain) sendMessage(
	ctx context.Context, sessionUserID, senderID, text, imageURL, unreadColumn string,
) (*model.ChatMessage, error) {
	now := time.Now()
	msg := &entity.ChatMessage{
		SnowFlakeBase: entity.SnowFlakeBase{ID: xcontext.SnowFlake(ctx).Generate().Int64(), CreatedAt: now},
		SessionUserID: sessionUserID,
		SenderID:      senderID,
		Text:          text,
		ImageURL:      imageURL,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.chatRepo.IncreaseUnread(ctx, sessionUserID, unreadColumn, now); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Session not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot increase unread count: %v", err)
		return nil, errorx.Unknown
	}

	if err := d.chatRepo.CreateMessage(ctx, msg); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create chat message: %v", err)
		return nil, errorx.Unknown
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot commit chat message: %v", err)
		return nil, errorx.Unknown
	}

	clientMsg := model.ConvertChatMessage(msg)
	if b, err := json.Marshal(clientMsg); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal chat message: %v", err)
	} else {
		d.hub.Broadcast(sessionUserID, b)
		d.hub.Broadcast(common.AdminChannel, b)
	}

	return &clientMsg, nil
}

func (d *chatDomain) SendChatMessage(
	ctx context.Context, req *model.SendChatMessageRequest,
) (*model.SendChatMessageResponse, error) {
	text, err := validateChatMessage(req.Text, req.ImageURL)
	if err != nil {
		return nil, err
	}

	userID := xcontext.RequestUserID(ctx)
	if err := d.chatRepo.CreateSessionIfNotExists(ctx, userID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create chat session: %v", err)
		return nil, errorx.Unknown
	}

	msg, err := d.sendMessage(ctx, userID, userID, text, req.ImageURL, repository.AdminUnreadColumn)
	if err != nil {
		return nil, err
	}

	return &model.SendChatMessageResponse{Message: *msg}, nil
}

func (d *chatDomain) MarkChatAsRead(
	ctx context.Context, req *model.MarkChatAsReadRequest,
) (*model.MarkChatAsReadResponse, error) {
	if err := d.chatRepo.ResetUnread(ctx, xcontext.RequestUserID(ctx), repository.UserUnreadColumn); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reset unread count: %v", err)
		return nil, errorx.Unknown
	}

	return &model.MarkChatAsReadResponse{}, nil
}

func (d *chatDomain) GetChatSessions(
	ctx context.Context, req *model.GetChatSessionsRequest,
) (*model.GetChatSessionsResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	offset, limit := common.Paginate(ctx, req.Offset, req.Limit)
	sessions, err := d.chatRepo.GetSessions(ctx, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get chat sessions: %v", err)
		return nil, errorx.Unknown
	}

	userIDs := []string{}
	for _, s := range sessions {
		userIDs = append(userIDs, s.UserID)
	}

	messages, err := d.chatRepo.GetMessages(ctx, userIDs...)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get chat messages: %v", err)
		return nil, errorx.Unknown
	}

	messagesBySession := map[string][]model.ChatMessage{}
	for i := range messages {
		msg := model.ConvertChatMessage(&messages[i])
		messagesBySession[msg.UserID] = append(messagesBySession[msg.UserID], msg)
	}

	resp := &model.GetChatSessionsResponse{Sessions: []model.ChatSession{}}
	for i := range sessions {
		resp.Sessions = append(resp.Sessions,
			model.ConvertChatSession(&sessions[i], messagesBySession[sessions[i].UserID]))
	}

	return resp, nil
}

func (d *chatDomain) AdminSendChatMessage(
	ctx context.Context, req *model.AdminSendChatMessageRequest,
) (*model.SendChatMessageResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	text, err := validateChatMessage(req.Text, req.ImageURL)
	if err != nil {
		return nil, err
	}

	msg, err := d.sendMessage(ctx, req.UserID, entity.AdminSenderID, text, req.ImageURL, repository.UserUnreadColumn)
	if err != nil {
		return nil, err
	}

	return &model.SendChatMessageResponse{Message: *msg}, nil
}

func (d *chatDomain) AdminMarkChatAsRead(
	ctx context.Context, req *model.AdminMarkChatAsReadRequest,
) (*model.MarkChatAsReadResponse, error) {
	if err := d.roleVerifier.Verify(ctx, entity.AdminRole); err != nil {
		return nil, errorx.New(errorx.PermissionDenied, "Permission denied")
	}

	if err := d.chatRepo.ResetUnread(ctx, req.UserID, repository.AdminUnreadColumn); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reset unread count: %v", err)
		return nil, errorx.Unknown
	}

	return &model.MarkChatAsReadResponse{}, nil
}

// ServeWebsocket pushes new chat messages to the connection. Users receive the
// messages of their own session, admins receive the messages of all sessions.
func (d *chatDomain) ServeWebsocket(ctx context.Context, conn *websocket.Conn) error {
	channel := xcontext.RequestUserID(ctx)
	if d.roleVerifier.Verify(ctx, entity.AdminRole) == nil {
		channel = common.AdminChannel
	}

	clientID, send := d.hub.Register(channel)
	defer func() {
		// The hub may have dropped a slow client already.
		_ = d.hub.Unregister(clientID)
	}()

	xcontext.Logger(ctx).Debugf("Websocket client %s connected", clientID)
	return ws.NewClient(conn).Serve(send)
}
