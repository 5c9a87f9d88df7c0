package apierrors

const (
	MsgInvalidTaskID       = "invalidTaskID"
	MsgInvalidTaskPayload  = "invalidTaskPayload"
	MsgInvalidTaskQuery    = "invalidTaskQuery"
	MsgTaskNotFound        = "taskNotFound"
	MsgNoTasksFound        = "noTasksFound"
	MsgFailListTask        = "errorListTask"
	MsgFailGetTask         = "failGetTask"
	MsgFailCreateTask      = "failCreateTask"
	MsgFailUpdateTask      = "failUpdateTask"
	MsgFailDeleteTask      = "failDeleteTask"
	MsgInvalidAIPayload    = "invalidAIPayload"
	MsgAIUnavailable       = "aiUnavailable"
	MsgExtractionFailed    = "extractionFailed"
	MsgInsightsFailed      = "insightsFailed"
	MsgFailAIRequest       = "failAIRequest"
	MsgIdempotencyConflict = "idempotencyConflict"
)

const (
	MsgTaskCreated     = "taskCreated"
	MsgTaskDeleted     = "taskDeleted"
	MsgTaskCategorized = "taskCategorized"
)
