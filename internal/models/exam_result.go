package models

// ExamResult is the subset of an upstream exam result row used for report statistics.
type ExamResult struct {
	Date         string `json:"date"`
	SubjectPaper string `json:"subject__paper"`
	ExamType     string `json:"exam_type"`
	TypeOfTest   string `json:"type_of_test"`
	TotalMark    Number `json:"total_mark"`
	StudentMark  Number `json:"student_mark"`
}

// ExamResultFields are requested when listing exam results for an enrollment.
var ExamResultFields = []string{
	"date", "subject__paper", "exam_type", "type_of_test", "total_mark", "student_mark",
}

// ExamStats aggregates marks across exam results.
type ExamStats struct {
	Exams         int     `json:"exams"`
	TotalMarks    float64 `json:"total_marks"`
	ObtainedMarks float64 `json:"obtained_marks"`
	Percentage    float64 `json:"percentage"`
}
