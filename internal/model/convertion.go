package model

import (
	"strconv"
	"time"

	"github.com/wealthfund/backend/internal/entity"
)

const DefaultTimeLayout string = time.RFC3339Nano
const DefaultDateLayout string = "2006-01-02"

func ConvertUser(user *entity.User) User {
	if user == nil {
		return User{}
	}

	return User{
		ID:               user.ID,
		Phone:            user.Phone,
		Name:             user.Name,
		Email:            user.Email,
		Avatar:           user.Avatar,
		Language:         user.Language,
		Balance:          user.Balance,
		TotalReturns:     user.TotalReturns,
		RechargeAmount:   user.RechargeAmount,
		Withdrawals:      user.Withdrawals,
		IsActive:         user.IsActive,
		LuckyDrawChances: user.LuckyDrawChances,
		HasFundPassword:  user.FundPassword != "",
		CreatedAt:        user.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertBankAccount(account *entity.BankAccount) *BankAccount {
	if account == nil {
		return nil
	}

	return &BankAccount{
		AccountHolder: account.AccountHolder,
		AccountNumber: account.AccountNumber,
		IFSCCode:      account.IFSCCode,
	}
}

func ConvertLoginActivity(activity *entity.LoginActivity) LoginActivity {
	return LoginActivity{
		Device:    activity.Device,
		IP:        activity.IP,
		CreatedAt: activity.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertTransaction(tx *entity.Transaction) Transaction {
	if tx == nil {
		return Transaction{}
	}

	return Transaction{
		ID:          strconv.FormatInt(tx.ID, 10),
		Type:        string(tx.Type),
		Status:      string(tx.Status),
		Amount:      tx.Amount,
		Tax:         tx.Tax,
		Description: tx.Description,
		IsRead:      tx.IsRead,
		CreatedAt:   tx.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertInvestment(investment *entity.Investment) Investment {
	if investment == nil {
		return Investment{}
	}

	return Investment{
		ID:             investment.ID,
		PlanID:         investment.PlanID,
		PlanName:       investment.PlanName,
		Category:       investment.Category,
		InvestedAmount: investment.InvestedAmount,
		TotalRevenue:   investment.TotalRevenue,
		DailyEarnings:  investment.DailyEarnings,
		RevenueDays:    investment.RevenueDays,
		Quantity:       investment.Quantity,
		StartDate:      investment.StartDate.Format(DefaultDateLayout),
	}
}

func ConvertPlan(plan *entity.Plan) Plan {
	if plan == nil {
		return Plan{}
	}

	return Plan{
		ID:            plan.ID,
		Name:          plan.Name,
		MinInvestment: plan.MinInvestment,
		DailyReturn:   plan.DailyReturn,
		Duration:      plan.Duration,
		Category:      plan.Category,
	}
}

func ConvertPrize(prize *entity.Prize) Prize {
	if prize == nil {
		return Prize{}
	}

	return Prize{
		ID:       prize.ID,
		Name:     prize.Name,
		Type:     string(prize.Type),
		Amount:   prize.Amount,
		Position: prize.Position,
	}
}

func ConvertComment(comment *entity.Comment) Comment {
	images := []string(comment.Images)
	if images == nil {
		images = []string{}
	}

	return Comment{
		ID:          comment.ID,
		UserID:      comment.UserID,
		UserName:    comment.UserName,
		UserAvatar:  comment.UserAvatar,
		MaskedPhone: comment.MaskedPhone,
		Text:        comment.Text,
		Images:      images,
		CreatedAt:   comment.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertChatMessage(msg *entity.ChatMessage) ChatMessage {
	return ChatMessage{
		ID:        strconv.FormatInt(msg.ID, 10),
		UserID:    msg.SessionUserID,
		SenderID:  msg.SenderID,
		Text:      msg.Text,
		ImageURL:  msg.ImageURL,
		CreatedAt: msg.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertChatSession(session *entity.ChatSession, messages []ChatMessage) ChatSession {
	if messages == nil {
		messages = []ChatMessage{}
	}

	return ChatSession{
		UserID:           session.UserID,
		UserName:         session.User.Name,
		UserPhone:        session.User.Phone,
		LastMessageAt:    session.LastMessageAt.Format(DefaultTimeLayout),
		UserUnreadCount:  session.UserUnreadCount,
		AdminUnreadCount: session.AdminUnreadCount,
		Messages:         messages,
	}
}

func ConvertActivityLog(log *entity.ActivityLog) ActivityLog {
	return ActivityLog{
		ID:        log.ID,
		UserID:    log.UserID,
		UserName:  log.UserName,
		Action:    log.Action,
		CreatedAt: log.CreatedAt.Format(DefaultTimeLayout),
	}
}

func ConvertPaymentMethod(method *entity.PaymentMethod) PaymentMethod {
	return PaymentMethod{
		ID:       method.ID,
		Name:     method.Name,
		UPIID:    method.UPIID,
		QRCode:   method.QRCode,
		IsActive: method.IsActive,
	}
}
