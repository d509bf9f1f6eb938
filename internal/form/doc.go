// Package form defines the data collected by the step dialog and the rules
// that decide whether a step may be left.
//
// # Data
//
// FormData holds five fields (first name, last name, address, phone and the
// terms agreement). Fields are addressed through the closed Field
// enumeration rather than string keys:
//
//	var d form.FormData
//	_ = d.Set(form.FieldAddress, "東京都新宿区")
//	_ = d.Set(form.FieldAgreement, true)
//
// # Validation
//
// Rules are declared as struct tags on two schemas, PersonalInfo (step 1)
// and ContactInfo (step 2), and evaluated with go-playground/validator.
// Failures are mapped to field keyed Japanese messages through a
// universal-translator "ja" translator:
//
//	errs := form.ValidatePersonalInfo(d)
//	if errs.Has(form.FieldFirstName) {
//	    fmt.Println(errs.Get(form.FieldFirstName)) // 姓を入力してください
//	}
//
// Validators never return Go errors. An empty Errors means the data passed.
//
// The leaf predicates (IsBlank, ValidPhone, Accepted) are exported so line
// mode prompts can check a single answer before it is stored.
package form
