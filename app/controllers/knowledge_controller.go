package controllers

import (
	"net/http"

	"github.com/admithub/backend-go/internal/knowledge"
)

// FAQRequest 知识条目请求
type FAQRequest struct {
	ID       string   `json:"id"`
	Question string   `json:"question" validate:"required,max=500"`
	Answer   string   `json:"answer" validate:"required,max=4000"`
	Category string   `json:"category" validate:"omitempty,max=64"`
	Keywords []string `json:"keywords" validate:"omitempty,max=20"`
}

// KnowledgeController 知识库管理接口
type KnowledgeController struct {
	BaseController
}

// List 列出所有知识条目
func (c *KnowledgeController) List() {
	c.JSONSuccess(registry.Knowledge.ListFAQs())
}

// Create 新增知识条目
func (c *KnowledgeController) Create() {
	var req FAQRequest
	if !c.BindAndValidate(&req) {
		return
	}

	faq, err := registry.Knowledge.AddFAQ(c.Ctx.Request.Context(), knowledge.FAQ{
		ID:       req.ID,
		Question: req.Question,
		Answer:   req.Answer,
		Category: req.Category,
		Keywords: req.Keywords,
	})
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSON(http.StatusCreated, map[string]interface{}{
		"success": true,
		"data":    faq,
	})
}

// Update 更新知识条目
func (c *KnowledgeController) Update() {
	id := c.Ctx.Input.Param(":id")
	var req FAQRequest
	if !c.BindAndValidate(&req) {
		return
	}
	req.ID = id

	err := registry.Knowledge.UpdateFAQ(c.Ctx.Request.Context(), knowledge.FAQ{
		ID:       req.ID,
		Question: req.Question,
		Answer:   req.Answer,
		Category: req.Category,
		Keywords: req.Keywords,
	})
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(map[string]string{"id": id, "status": "updated"})
}

// Delete 删除知识条目
func (c *KnowledgeController) Delete() {
	id := c.Ctx.Input.Param(":id")
	if err := registry.Knowledge.DeleteFAQ(c.Ctx.Request.Context(), id); err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(map[string]string{"id": id, "status": "deleted"})
}

// Search 直接检索知识库
func (c *KnowledgeController) Search() {
	query := c.GetString("q")
	topK, _ := c.GetInt("top_k", 0)

	result, err := registry.Knowledge.Search(c.Ctx.Request.Context(), query, topK)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(result)
}

// Reindex 全量重建向量索引
func (c *KnowledgeController) Reindex() {
	if err := registry.Knowledge.Reindex(c.Ctx.Request.Context()); err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(map[string]string{"status": "reindexed"})
}

// Stats 知识库统计信息
func (c *KnowledgeController) Stats() {
	c.JSONSuccess(registry.Knowledge.Stats(c.Ctx.Request.Context()))
}
