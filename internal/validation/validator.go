package validation

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"curriculum-editor/internal/curriculum"
	"curriculum-editor/internal/domain"
	"curriculum-editor/internal/payload"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	// custom validation tags
	notBlankTag   = "notblank"
	moneyTag      = "money"
	contentURLTag = "content_url"
)

func init() {
	validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = validate.RegisterValidation(moneyTag, moneyValidation)
	validate.RegisterStructValidation(activityStructValidation, curriculum.ActivityFields{})
	validate.RegisterStructValidation(courseStructValidation, curriculum.CourseFields{})
	validate.RegisterStructValidation(activityRecordStructValidation, payload.ActivityRecord{})

	registerCustomTranslations(notBlankTag, moneyTag, contentURLTag)
}

// registerCustomTranslations hooks messages for the custom tags. The default translations are
// already registered, so the registration func is a noop.
func registerCustomTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = validate.RegisterTranslation(tag, translator, registerFn, translateCustom)
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case notBlankTag:
		return "this field cannot be blank"
	case moneyTag:
		return "must be a monetary amount"
	case contentURLTag:
		return "must be a valid URL"
	default:
		return ""
	}
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func moneyValidation(fl validator.FieldLevel) bool {
	return payload.ValidAmount(fl.Field().String())
}

func isURL(s string) bool {
	return validate.Var(s, "required,url") == nil
}

// activityStructValidation checks the content field of the activity's current type only.
func activityStructValidation(sl validator.StructLevel) {
	a, ok := sl.Current().Interface().(curriculum.ActivityFields)
	if !ok {
		return
	}
	switch a.Type {
	case domain.ActivityVideo:
		reportURL(sl, a.VideoURL, curriculum.FieldVideoURL, "VideoURL")
	case domain.ActivityFile:
		reportURL(sl, a.FileURL, curriculum.FieldFileURL, "FileURL")
	}
}

func reportURL(sl validator.StructLevel, value, field, structField string) {
	if strings.TrimSpace(value) == "" {
		sl.ReportError(value, field, structField, notBlankTag, "")
		return
	}
	if !isURL(value) {
		sl.ReportError(value, field, structField, contentURLTag, "")
	}
}

func courseStructValidation(sl validator.StructLevel) {
	c, ok := sl.Current().Interface().(curriculum.CourseFields)
	if !ok {
		return
	}
	if c.Cover.URL != "" && !isURL(c.Cover.URL) {
		sl.ReportError(c.Cover.URL, curriculum.FieldCoverURL, "Cover", contentURLTag, "")
	}
}

// activityRecordStructValidation mirrors the backend rule that video and file content is a URL.
func activityRecordStructValidation(sl validator.StructLevel) {
	a, ok := sl.Current().Interface().(payload.ActivityRecord)
	if !ok {
		return
	}
	switch domain.ActivityType(a.Type) {
	case domain.ActivityVideo, domain.ActivityFile:
		if !isURL(a.Content) {
			sl.ReportError(a.Content, "content", "Content", contentURLTag, "")
		}
	}
}
