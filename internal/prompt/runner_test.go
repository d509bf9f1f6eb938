package prompt

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/muurk/stepdialog/internal/dialog"
	"github.com/muurk/stepdialog/internal/form"
	"github.com/muurk/stepdialog/internal/submit"
)

// scriptedDriver answers prompts from queues and records printed lines
type scriptedDriver struct {
	inputs   []string
	confirms []bool
	selects  []int

	asked      []string
	info       []string
	validators map[string]func(string) error
}

func (d *scriptedDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	if d.validators == nil {
		d.validators = map[string]func(string) error{}
	}
	d.validators[cfg.Message] = cfg.Validator
	if len(d.inputs) == 0 {
		return "", ErrAborted
	}
	v := d.inputs[0]
	d.inputs = d.inputs[1:]
	return v, nil
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.confirms) == 0 {
		return false, ErrAborted
	}
	v := d.confirms[0]
	d.confirms = d.confirms[1:]
	return v, nil
}

func (d *scriptedDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.selects) == 0 {
		return 0, ErrAborted
	}
	v := d.selects[0]
	d.selects = d.selects[1:]
	return v, nil
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.info = append(d.info, msg)
	return nil
}

func recordingSubmitter(got *[]form.FormData, err error) submit.Submitter {
	return submit.Func(func(_ context.Context, data form.FormData) error {
		*got = append(*got, data)
		return err
	})
}

func TestRunner_HappyPath(t *testing.T) {
	driver := &scriptedDriver{
		inputs:   []string{"山田", "太郎", "東京都渋谷区1-2-3", "090-1234-5678"},
		confirms: []bool{true},
		selects:  []int{0},
	}
	var submitted []form.FormData
	r := NewRunner(driver, recordingSubmitter(&submitted, nil))

	require.NoError(t, r.Run(context.Background()))

	require.Len(t, submitted, 1)
	require.Equal(t, form.FormData{
		FirstName: "山田",
		LastName:  "太郎",
		Address:   "東京都渋谷区1-2-3",
		Phone:     "090-1234-5678",
		Agreement: true,
	}, submitted[0])
	require.Contains(t, driver.info, SuccessMessage)
	require.Contains(t, driver.info, "入力内容確認\n  氏名: 山田 太郎\n  住所: 東京都渋谷区1-2-3\n  電話番号: 090-1234-5678\n  利用規約: ✓ 同意済み")
	require.False(t, r.Dialog.IsOpen())
}

func TestRunner_RepromptsAfterErrors(t *testing.T) {
	driver := &scriptedDriver{
		// First pass leaves the last name blank
		inputs:   []string{"山田", "", "山田", "太郎", "東京都", "090-1234-5678"},
		confirms: []bool{true},
		selects:  []int{0},
	}
	var submitted []form.FormData
	r := NewRunner(driver, recordingSubmitter(&submitted, nil))

	require.NoError(t, r.Run(context.Background()))
	require.Contains(t, driver.info, "✗ 名を入力してください")
	require.Len(t, submitted, 1)
}

func TestRunner_FieldValidators(t *testing.T) {
	driver := &scriptedDriver{
		inputs:   []string{"山田", "太郎", "東京都", "090-1234-5678"},
		confirms: []bool{true},
		selects:  []int{2},
	}
	r := NewRunner(driver, submit.NewDelay(1))

	require.ErrorIs(t, r.Run(context.Background()), ErrCanceled)

	phone := driver.validators["電話番号"]
	require.NotNil(t, phone)
	require.EqualError(t, phone("abc"), "正しい電話番号の形式で入力してください（例: 090-1234-5678）")
	require.NoError(t, phone("03-1234-5678"))
	require.EqualError(t, driver.validators["姓"](""), "姓を入力してください")
}

func TestRunner_PreviousFromConfirm(t *testing.T) {
	driver := &scriptedDriver{
		inputs: []string{
			"山田", "太郎",
			"東京都", "090-1234-5678",
			// Back on step 2: change the address
			"大阪府", "090-1234-5678",
		},
		confirms: []bool{true, true},
		selects:  []int{1, 0},
	}
	var submitted []form.FormData
	r := NewRunner(driver, recordingSubmitter(&submitted, nil))

	require.NoError(t, r.Run(context.Background()))
	require.Len(t, submitted, 1)
	require.Equal(t, "大阪府", submitted[0].Address)
}

func TestRunner_SubmitFailureThenRetry(t *testing.T) {
	driver := &scriptedDriver{
		inputs:   []string{"山田", "太郎", "東京都", "090-1234-5678"},
		confirms: []bool{true},
		selects:  []int{0, 0},
	}

	attempts := 0
	s := submit.Func(func(context.Context, form.FormData) error {
		attempts++
		if attempts == 1 {
			return errors.New("receiver down")
		}
		return nil
	})
	r := NewRunner(driver, s)

	require.NoError(t, r.Run(context.Background()))
	require.Equal(t, 2, attempts)
	require.Contains(t, driver.info, dialog.FailureNotice)
	require.Contains(t, driver.info, SuccessMessage)
}

func TestRunner_Cancel(t *testing.T) {
	host := 0
	driver := &scriptedDriver{
		inputs:   []string{"山田", "太郎", "東京都", "090-1234-5678"},
		confirms: []bool{true},
		selects:  []int{2},
	}
	r := NewRunner(driver, submit.NewDelay(1), dialog.WithHost(dialog.HostFunc(func() { host++ })))

	require.ErrorIs(t, r.Run(context.Background()), ErrCanceled)
	require.False(t, r.Dialog.IsOpen())
	require.Equal(t, form.FormData{}, r.Dialog.Data())
	require.Equal(t, 1, host)
}

func TestRunner_Aborted(t *testing.T) {
	driver := &scriptedDriver{inputs: []string{"山田"}}
	r := NewRunner(driver, submit.NewDelay(1))

	require.ErrorIs(t, r.Run(context.Background()), ErrAborted)
	require.False(t, r.Dialog.IsOpen())
}

func TestRunner_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewRunner(&scriptedDriver{}, submit.NewDelay(1))
	require.ErrorIs(t, r.Run(ctx), context.Canceled)
}

func TestIndexOf(t *testing.T) {
	require.Equal(t, 1, indexOf(confirmChoices, ChoicePrevious))
	require.Equal(t, -1, indexOf(confirmChoices, "nope"))
}
