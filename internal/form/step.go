package form

import "fmt"

// Step is one of the three screens of the dialog
type Step int

const (
	StepPersonalInfo Step = iota + 1
	StepContactInfo
	StepConfirm
)

const (
	FirstStep = StepPersonalInfo
	LastStep  = StepConfirm
)

// Steps lists the steps in order
var Steps = []Step{StepPersonalInfo, StepContactInfo, StepConfirm}

// Valid reports whether s is within 1..3
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// String returns a short name used in logs
func (s Step) String() string {
	switch s {
	case StepPersonalInfo:
		return "personal_info"
	case StepContactInfo:
		return "contact_info"
	case StepConfirm:
		return "confirm"
	default:
		return fmt.Sprintf("Step(%d)", int(s))
	}
}

// Title returns the dialog heading for the step
func (s Step) Title() string {
	switch s {
	case StepPersonalInfo:
		return "ステップ 1: 基本情報"
	case StepContactInfo:
		return "ステップ 2: 詳細情報"
	case StepConfirm:
		return "ステップ 3: 確認"
	default:
		return ""
	}
}

// Description returns the sub-heading for the step
func (s Step) Description() string {
	switch s {
	case StepPersonalInfo:
		return "お客様の氏名をご入力ください"
	case StepContactInfo:
		return "住所と電話番号、利用規約への同意をお願いします"
	case StepConfirm:
		return "入力内容をご確認の上、送信してください"
	default:
		return ""
	}
}

// Fields returns the fields edited on the step. The confirm step edits none.
func (s Step) Fields() []Field {
	switch s {
	case StepPersonalInfo:
		return []Field{FieldFirstName, FieldLastName}
	case StepContactInfo:
		return []Field{FieldAddress, FieldPhone, FieldAgreement}
	default:
		return nil
	}
}
