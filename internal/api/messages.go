package api

// Messages are the user-facing texts returned by the handlers.
type Messages struct {
	FileRequired       string
	UploadTooLarge     string
	UnreadableWorkbook string
	NoValidURLs        string
	SubmitFailed       string
	StatusFailed       string
	JobNotReady        string
	DownloadFailed     string
	TemplateFailed     string
}

var catalogs = map[string]Messages{
	"zh": {
		FileRequired:       "请上传 Excel 文件",
		UploadTooLarge:     "上传的文件过大",
		UnreadableWorkbook: "无法读取上传的 Excel 文件",
		NoValidURLs:        "未在 Excel 中找到有效的 URL (需以 http 开头)",
		SubmitFailed:       "提交任务失败: ",
		StatusFailed:       "获取状态失败",
		JobNotReady:        "任务未完成或无数据",
		DownloadFailed:     "生成文件失败",
		TemplateFailed:     "生成模板失败",
	},
	"en": {
		FileRequired:       "please upload an Excel file",
		UploadTooLarge:     "uploaded file is too large",
		UnreadableWorkbook: "the uploaded file could not be read as an Excel workbook",
		NoValidURLs:        "no valid URLs found in the Excel file (they must start with http)",
		SubmitFailed:       "failed to submit task: ",
		StatusFailed:       "failed to fetch status",
		JobNotReady:        "task not completed or has no data",
		DownloadFailed:     "failed to generate file",
		TemplateFailed:     "failed to generate template",
	},
}

// MessagesFor returns the catalog for locale, falling back to Chinese.
func MessagesFor(locale string) Messages {
	if m, ok := catalogs[locale]; ok {
		return m
	}
	return catalogs["zh"]
}
