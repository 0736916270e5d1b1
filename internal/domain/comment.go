package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/wealthfund/backend/internal/common"
	"github.com/wealthfund/backend/internal/entity"
	"github.com/wealthfund/backend/internal/model"
	"github.com/wealthfund/backend/internal/repository"
	"github.com/wealthfund/backend/pkg/errorx"
	"github.com/wealthfund/backend/pkg/storage"
	"github.com/wealthfund/backend/pkg/xcontext"
	"gorm.io/gorm"
)

const maxCommentLength = 1000

type CommentDomain interface {
	GetComments(context.Context, *model.GetCommentsRequest) (*model.GetCommentsResponse, error)
	CreateComment(context.Context, *model.CreateCommentRequest) (*model.CreateCommentResponse, error)
	UpdateComment(context.Context, *model.UpdateCommentRequest) (*model.UpdateCommentResponse, error)
	DeleteComment(context.Context, *model.DeleteCommentRequest) (*model.DeleteCommentResponse, error)
	UploadImage(context.Context, *model.UploadImageRequest) (*model.UploadImageResponse, error)
}

type commentDomain struct {
	commentRepo  repository.CommentRepository
	userRepo     repository.UserRepository
	storage      storage.Storage
	roleVerifier *common.RoleVerifier
	activity     activityRecorder
}

func NewCommentDomain(
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	activityLogRepo repository.ActivityLogRepository,
	storage storage.Storage,
) *commentDomain {
	return &commentDomain{
		commentRepo:  commentRepo,
		userRepo:     userRepo,
		storage:      storage,
		roleVerifier: common.NewRoleVerifier(),
		activity:     activityRecorder{activityLogRepo: activityLogRepo},
	}
}

func (d *commentDomain) GetComments(
	ctx context.Context, req *model.GetCommentsRequest,
) (*model.GetCommentsResponse, error) {
	offset, limit := common.Paginate(ctx, req.Offset, req.Limit)
	comments, err := d.commentRepo.GetList(ctx, offset, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get comments: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetCommentsResponse{Comments: []model.Comment{}}
	for i := range comments {
		resp.Comments = append(resp.Comments, model.ConvertComment(&comments[i]))
	}

	return resp, nil
}

func validateCommentText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errorx.New(errorx.BadRequest, "Comment must not be empty")
	}

	if len([]rune(text)) > maxCommentLength {
		return "", errorx.New(errorx.BadRequest, "Comment must be at most %d characters", maxCommentLength)
	}

	return text, nil
}

// CreateComment snapshots the author's name, avatar and masked phone, later
// profile changes do not rewrite old comments.
func (d *commentDomain) CreateComment(
	ctx context.Context, req *model.CreateCommentRequest,
) (*model.CreateCommentResponse, error) {
	text, err := validateCommentText(req.Text)
	if err != nil {
		return nil, err
	}

	if maxImages := xcontext.Configs(ctx).File.MaxImages; len(req.Images) > maxImages {
		return nil, errorx.New(errorx.BadRequest, "A comment can have at most %d images", maxImages)
	}

	user, err := d.userRepo.GetByID(ctx, xcontext.RequestUserID(ctx))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "User not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
		return nil, errorx.Unknown
	}

	comment := &entity.Comment{
		Base:        entity.Base{ID: uuid.NewString()},
		UserID:      user.ID,
		UserName:    user.Name,
		UserAvatar:  user.Avatar,
		MaskedPhone: common.MaskPhone(user.Phone),
		Text:        text,
		Images:      entity.Array[string](req.Images),
	}
	if err := d.commentRepo.Create(ctx, comment); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create comment: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateCommentResponse{Comment: model.ConvertComment(comment)}, nil
}

func (d *commentDomain) getComment(ctx context.Context, id string) (*entity.Comment, error) {
	comment, err := d.commentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Comment not found")
		}

		xcontext.Logger(ctx).Errorf("Cannot get comment: %v", err)
		return nil, errorx.Unknown
	}

	return comment, nil
}

func (d *commentDomain) UpdateComment(
	ctx context.Context, req *model.UpdateCommentRequest,
) (*model.UpdateCommentResponse, error) {
	text, err := validateCommentText(req.Text)
	if err != nil {
		return nil, err
	}

	comment, err := d.getComment(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if comment.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can edit this comment")
	}

	if err := d.commentRepo.UpdateText(ctx, comment.ID, text); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update comment: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateCommentResponse{}, nil
}

// DeleteComment is allowed for the author and for admins.
func (d *commentDomain) DeleteComment(
	ctx context.Context, req *model.DeleteCommentRequest,
) (*model.DeleteCommentResponse, error) {
	comment, err := d.getComment(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	isAdmin := d.roleVerifier.Verify(ctx, entity.AdminRole) == nil
	if !isAdmin && comment.UserID != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "Only the author can delete this comment")
	}

	if err := d.commentRepo.DeleteByID(ctx, comment.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete comment: %v", err)
		return nil, errorx.Unknown
	}

	if isAdmin {
		d.activity.record(ctx, xcontext.RequestUserID(ctx), "admin", "Deleted comment of "+comment.UserName)
	}

	return &model.DeleteCommentResponse{}, nil
}

func (d *commentDomain) UploadImage(
	ctx context.Context, req *model.UploadImageRequest,
) (*model.UploadImageResponse, error) {
	resp, err := common.ProcessImage(ctx, d.storage, "image", "comments")
	if err != nil {
		return nil, err
	}

	return &model.UploadImageResponse{Url: resp.Url}, nil
}
