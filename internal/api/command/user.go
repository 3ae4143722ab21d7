package command

import (
	"github.com/mashangjie/taskmarket/internal/core/domain"
	"github.com/mashangjie/taskmarket/internal/core/ports"
)

const (
	ActionRegister      = "register"
	ActionGetProfile    = "getProfile"
	ActionUpdateProfile = "updateProfile"
)

// UserCommand is one of Register, GetProfile or UpdateProfile.
type UserCommand interface {
	Command
	userCommand()
}

// UserInfo is the client-side profile sent on registration.
type UserInfo struct {
	AvatarURL string `json:"avatarUrl"`
	NickName  string `json:"nickName"`
}

type Register struct {
	UserInfo UserInfo    `json:"userInfo"`
	UserType domain.Role `json:"userType" validate:"required,oneof=customer developer"`
	Skills   []string    `json:"skills"`
}

type GetProfile struct{}

// UpdateProfile changes only the fields present in the body.
type UpdateProfile struct {
	UserType *domain.Role `json:"userType" validate:"omitempty,oneof=customer developer"`
	Skills   []string     `json:"skills"`
	Avatar   *string      `json:"avatar"`
	Nickname *string      `json:"nickname"`
}

func (*Register) Action() string      { return ActionRegister }
func (*GetProfile) Action() string    { return ActionGetProfile }
func (*UpdateProfile) Action() string { return ActionUpdateProfile }

func (*Register) userCommand()      {}
func (*GetProfile) userCommand()    {}
func (*UpdateProfile) userCommand() {}

var userCommands = map[string]func() UserCommand{
	ActionRegister:      func() UserCommand { return &Register{} },
	ActionGetProfile:    func() UserCommand { return &GetProfile{} },
	ActionUpdateProfile: func() UserCommand { return &UpdateProfile{} },
}

// DecodeUser decodes a user manager request.
func DecodeUser(body []byte) (UserCommand, error) {
	return decode(body, userCommands)
}

func (c *Register) Input() ports.RegisterInput {
	return ports.RegisterInput{
		Nickname: c.UserInfo.NickName,
		Avatar:   c.UserInfo.AvatarURL,
		Role:     c.UserType,
		Skills:   c.Skills,
	}
}

// Update converts the command into a profile update.
func (c *UpdateProfile) Update() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Role:     c.UserType,
		Skills:   c.Skills,
		Avatar:   c.Avatar,
		Nickname: c.Nickname,
	}
}
