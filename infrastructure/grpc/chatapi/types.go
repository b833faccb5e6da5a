package chatapi

import "time"

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Image     string `json:"image,omitempty"`
	Color     int    `json:"color,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

type SendMessageRequest struct {
	Recipient   string `json:"recipient,omitempty"`
	GroupID     string `json:"group,omitempty"`
	MessageType string `json:"messageType,omitempty"`
	Content     string `json:"content,omitempty"`
	FileURL     string `json:"fileUrl,omitempty"`
}

type ScheduleMessageRequest struct {
	SendMessageRequest
	ScheduledAt time.Time `json:"scheduledAt"`
}

type MessageResponse struct {
	Message *Message `json:"message"`
}

type Message struct {
	ID          string     `json:"id"`
	Sender      string     `json:"sender"`
	Recipient   string     `json:"recipient,omitempty"`
	GroupID     string     `json:"group,omitempty"`
	MessageType string     `json:"messageType"`
	Content     string     `json:"content,omitempty"`
	FileURL     string     `json:"fileUrl,omitempty"`
	Timestamp   time.Time  `json:"timestamp"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
}

type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Image     string `json:"image,omitempty"`
	Color     int    `json:"color"`
}

type GetMessagesRequest struct {
	ID string `json:"id"`
}

type GetGroupMessagesRequest struct {
	GroupID string `json:"groupId"`
}

type GetMessagesResponse struct {
	Messages []*Message `json:"messages"`
}

type MarkReadRequest struct {
	ID string `json:"id"`
}

type MarkReadResponse struct {
	Updated int `json:"updated"`
}

type CreateGroupRequest struct {
	Name    string   `json:"name"`
	Members []string `json:"members"`
}

type GroupResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Members   []string  `json:"members"`
	Admin     string    `json:"admin"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type UploadFileRequest struct {
	FileName string `json:"fileName"`
	Data     []byte `json:"data"`
}

type UploadFileResponse struct {
	FilePath string `json:"filePath"`
	MimeType string `json:"mimeType"`
}

type AssistantRequest struct {
	ID string `json:"id"`
}

type AssistantResponse struct {
	Text string `json:"text"`
}

type ConnectRequest struct{}

const EventReceiveMessage = "receiveMessage"

// ChatEvent is pushed on the Connect stream.
type ChatEvent struct {
	Event     string   `json:"event"`
	Message   *Message `json:"message"`
	Sender    *Profile `json:"sender,omitempty"`
	Recipient *Profile `json:"recipient,omitempty"`
}

type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

type GenerateResponse struct {
	Text string `json:"text"`
}
