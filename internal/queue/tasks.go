package queue

import (
	"encoding/json"
	"time"

	"github.com/blogcraft/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskPostViewIncrement 文章浏览量自增任务
	TaskPostViewIncrement = constants.TaskPostViewIncrement
	// TaskContentRecount 冗余计数重算任务
	TaskContentRecount = constants.TaskContentRecount
)

// PostViewIncrementPayload 浏览量自增任务载荷
type PostViewIncrementPayload struct {
	PostID   uint      `json:"post_id"`
	ViewedAt time.Time `json:"viewed_at"`
}

// ContentRecountPayload 计数重算任务载荷
type ContentRecountPayload struct {
	Reason string `json:"reason"`
}

// NewPostViewIncrementTask 创建浏览量自增任务
func NewPostViewIncrementTask(payload PostViewIncrementPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPostViewIncrement, body), nil
}

// NewContentRecountTask 创建计数重算任务
func NewContentRecountTask(payload ContentRecountPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskContentRecount, body), nil
}

// ParsePostViewIncrementPayload 解析浏览量任务载荷
func ParsePostViewIncrementPayload(body []byte) (PostViewIncrementPayload, error) {
	var payload PostViewIncrementPayload
	err := json.Unmarshal(body, &payload)
	return payload, err
}

// ParseContentRecountPayload 解析计数重算任务载荷
func ParseContentRecountPayload(body []byte) (ContentRecountPayload, error) {
	var payload ContentRecountPayload
	err := json.Unmarshal(body, &payload)
	return payload, err
}
