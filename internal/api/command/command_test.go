package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mashangjie/taskmarket/internal/core/domain"
)

func TestDecodeTask_SelectsCommandByAction(t *testing.T) {
	cases := []struct {
		body string
		want TaskCommand
	}{
		{`{"action":"create","title":"t"}`, &CreateTask{}},
		{`{"action":"list"}`, &ListTasks{}},
		{`{"action":"detail","taskId":"t1"}`, &TaskDetail{}},
		{`{"action":"myPublished"}`, &MyPublished{}},
		{`{"action":"myGrabbed"}`, &MyGrabbed{}},
		{`{"action":"grab","taskId":"t1"}`, &GrabTask{}},
		{`{"action":"cancel","taskId":"t1"}`, &CancelTask{}},
		{`{"action":"aiEstimate"}`, &EstimatePrice{}},
	}
	for _, tc := range cases {
		t.Run(tc.want.Action(), func(t *testing.T) {
			cmd, err := DecodeTask([]byte(tc.body))
			require.NoError(t, err)
			assert.IsType(t, tc.want, cmd)
			assert.Equal(t, tc.want.Action(), cmd.Action())
		})
	}
}

func TestDecodeTask_CreateFields(t *testing.T) {
	body := `{"action":"create","title":"Mini program","description":"shop",
		"budgetRange":{"min":1000,"max":2000},"deadline":"2026-12-01",
		"techStack":["go","vue"],"finalPrice":1800,"aiSuggestedPrice":1500}`

	cmd, err := DecodeTask([]byte(body))
	require.NoError(t, err)

	create, ok := cmd.(*CreateTask)
	require.True(t, ok)
	in := create.Input()
	assert.Equal(t, "Mini program", in.Title)
	assert.Equal(t, domain.BudgetRange{Min: 1000, Max: 2000}, in.BudgetRange)
	assert.Equal(t, []string{"go", "vue"}, in.TechStack)
	assert.Equal(t, 1800.0, in.FinalPrice)
	assert.Equal(t, 1500.0, in.AISuggestedPrice)
}

func TestDecodeTask_AcceptsNumericStrings(t *testing.T) {
	body := `{"action":"create","title":"Mini program",
		"budgetRange":{"min":"1000","max":"5000"},"finalPrice":"1800","aiSuggestedPrice":""}`

	cmd, err := DecodeTask([]byte(body))
	require.NoError(t, err)
	in := cmd.(*CreateTask).Input()
	assert.Equal(t, domain.BudgetRange{Min: 1000, Max: 5000}, in.BudgetRange)
	assert.Equal(t, 1800.0, in.FinalPrice)
	assert.Equal(t, 0.0, in.AISuggestedPrice)

	cmd, err = DecodeTask([]byte(`{"action":"aiEstimate","title":"shop","budgetRange":{"min":"1000","max":"5000"},"techStack":["go"]}`))
	require.NoError(t, err)
	est := cmd.(*EstimatePrice).Input()
	assert.Equal(t, domain.BudgetRange{Min: 1000, Max: 5000}, est.BudgetRange)

	cmd, err = DecodeTask([]byte(`{"action":"list","filter":{"maxPrice":"500"}}`))
	require.NoError(t, err)
	list := cmd.(*ListTasks).Input()
	require.NotNil(t, list.MaxPrice)
	assert.Equal(t, 500.0, *list.MaxPrice)
}

func TestDecodeTask_RejectsNonNumericPrice(t *testing.T) {
	_, err := DecodeTask([]byte(`{"action":"create","title":"t","finalPrice":"cheap"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = DecodeTask([]byte(`{"action":"aiEstimate","budgetRange":{"min":"NaN"}}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListTasks_Input(t *testing.T) {
	cmd, err := DecodeTask([]byte(`{"action":"list","filter":{"status":"grabbed","maxPrice":500,"techStack":["go"]}}`))
	require.NoError(t, err)

	in := cmd.(*ListTasks).Input()
	assert.Equal(t, domain.TaskGrabbed, in.Status)
	require.NotNil(t, in.MaxPrice)
	assert.Equal(t, 500.0, *in.MaxPrice)
	assert.Equal(t, []string{"go"}, in.TechStack)

	cmd, err = DecodeTask([]byte(`{"action":"list"}`))
	require.NoError(t, err)
	assert.Empty(t, cmd.(*ListTasks).Input())
}

func TestDecode_UnknownAction(t *testing.T) {
	for _, body := range []string{`{"action":"explode"}`, `{}`, `{"action":""}`} {
		_, err := DecodeOrder([]byte(body))
		assert.ErrorIs(t, err, domain.ErrUnknownAction, body)
	}
}

func TestDecode_ActionsAreScopedPerManager(t *testing.T) {
	_, err := DecodeUser([]byte(`{"action":"grab","taskId":"t1"}`))
	assert.ErrorIs(t, err, domain.ErrUnknownAction)

	cmd, err := DecodeReview([]byte(`{"action":"create","taskId":"t1","rating":4}`))
	require.NoError(t, err)
	assert.IsType(t, &CreateReview{}, cmd)
}

func TestDecode_MalformedBody(t *testing.T) {
	_, err := DecodeTask([]byte(`not json`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = DecodeReview([]byte(`{"action":"create","rating":"five"}`))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestDecodeUser_RegisterAndUpdate(t *testing.T) {
	cmd, err := DecodeUser([]byte(`{"action":"register","userInfo":{"avatarUrl":"a.png","nickName":"Ann"},"userType":"developer","skills":["go"]}`))
	require.NoError(t, err)
	in := cmd.(*Register).Input()
	assert.Equal(t, "Ann", in.Nickname)
	assert.Equal(t, "a.png", in.Avatar)
	assert.Equal(t, domain.RoleDeveloper, in.Role)
	assert.Equal(t, []string{"go"}, in.Skills)

	cmd, err = DecodeUser([]byte(`{"action":"updateProfile","nickname":"Bo"}`))
	require.NoError(t, err)
	update := cmd.(*UpdateProfile).Update()
	require.NotNil(t, update.Nickname)
	assert.Equal(t, "Bo", *update.Nickname)
	assert.Nil(t, update.Role)
	assert.Nil(t, update.Skills)
	assert.Nil(t, update.Avatar)
}

func TestDecodePayment_Callback(t *testing.T) {
	cmd, err := DecodePayment([]byte(`{"action":"paymentCallback","orderId":"o1","outTradeNo":"o1-1","returnCode":"SUCCESS","resultCode":"SUCCESS"}`))
	require.NoError(t, err)

	in := cmd.(*PaymentCallback).Input()
	assert.Equal(t, "o1", in.OrderID)
	assert.Equal(t, "o1-1", in.OutTradeNo)
	assert.Equal(t, domain.GatewaySuccess, in.ReturnCode)
	assert.Equal(t, domain.GatewaySuccess, in.ResultCode)
}
