package controllers

import (
	"net/http"
)

// TrainingExampleRequest 训练样本请求
type TrainingExampleRequest struct {
	Text string `json:"text" validate:"required,max=500"`
	Tag  string `json:"tag" validate:"required,max=64"`
}

// TrainingController 意图语料管理接口
type TrainingController struct {
	BaseController
}

// Intents 当前已知的意图标签
func (c *TrainingController) Intents() {
	c.JSONSuccess(registry.Training.Intents())
}

// AddExample 追加训练样本并重训分类器
func (c *TrainingController) AddExample() {
	var req TrainingExampleRequest
	if !c.BindAndValidate(&req) {
		return
	}

	if err := registry.Training.AddExample(req.Text, req.Tag); err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    map[string]string{"text": req.Text, "tag": req.Tag, "status": "trained"},
	})
}

// Retrain 用当前语料重新训练
func (c *TrainingController) Retrain() {
	if err := registry.Training.Train(); err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(map[string]string{"status": "trained"})
}
