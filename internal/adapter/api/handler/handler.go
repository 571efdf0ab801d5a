package handler

import (
	"playverse/internal/usecase"
)

var (
	authHandler         *AuthHandler
	userHandler         *UserHandler
	gameHandler         *GameHandler
	chatHandler         *ChatHandler
	forumHandler        *ForumHandler
	notificationHandler *NotificationHandler
	loyaltyHandler      *LoyaltyHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	gameUseCase *usecase.GameUseCase,
	chatUseCase *usecase.ChatUseCase,
	forumUseCase *usecase.ForumUseCase,
	notificationUseCase *usecase.NotificationUseCase,
	loyaltyUseCase *usecase.LoyaltyUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	gameHandler = NewGameHandler(gameUseCase)
	chatHandler = NewChatHandler(chatUseCase)
	forumHandler = NewForumHandler(forumUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase)
	loyaltyHandler = NewLoyaltyHandler(loyaltyUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetGameHandler() *GameHandler {
	return gameHandler
}

func GetChatHandler() *ChatHandler {
	return chatHandler
}

func GetForumHandler() *ForumHandler {
	return forumHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}

func GetLoyaltyHandler() *LoyaltyHandler {
	return loyaltyHandler
}
