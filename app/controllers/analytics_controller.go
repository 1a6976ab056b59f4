package controllers

// AnalyticsController 统计报表接口
type AnalyticsController struct {
	BaseController
}

// Report 最近N天的统计报表
func (c *AnalyticsController) Report() {
	days, _ := c.GetInt("days", 7)

	report, err := registry.Analytics.Report(c.Ctx.Request.Context(), days)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(report)
}

// PopularQueries 高频问题
func (c *AnalyticsController) PopularQueries() {
	limit, _ := c.GetInt("limit", 10)
	days, _ := c.GetInt("days", 30)

	queries, err := registry.Analytics.PopularQueries(c.Ctx.Request.Context(), limit, days)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(queries)
}

// LowConfidence 低置信度交互
func (c *AnalyticsController) LowConfidence() {
	threshold, _ := c.GetFloat("threshold", 0.5)
	limit, _ := c.GetInt("limit", 50)

	interactions, err := registry.Analytics.LowConfidence(c.Ctx.Request.Context(), threshold, limit)
	if err != nil {
		c.JSONAppError(err)
		return
	}
	c.JSONSuccess(interactions)
}
