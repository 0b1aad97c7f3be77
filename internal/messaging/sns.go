package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/CardSentry/FraudSight/internal/models"
)

type AlertMessenger interface {
	PublishFraudAlert(ctx context.Context, record models.PredictionRecord) (*sns.PublishOutput, error)
	SendTextAlert(record models.PredictionRecord, toNumber string) error
}

// FsAlertMessenger publishes high-risk score alerts to an SNS topic and,
// optionally, texts the on-call number through Twilio.
type FsAlertMessenger struct {
	Client         *sns.Client
	TopicArn       string
	TwilioUsername string
	TwilioPassword string
	TwilioFrom     string
}

func NewFsAlertMessenger(snsClient *sns.Client, topicArn, twilioUsername, twilioPassword, twilioFrom string) *FsAlertMessenger {
	return &FsAlertMessenger{
		Client:         snsClient,
		TopicArn:       topicArn,
		TwilioUsername: twilioUsername,
		TwilioPassword: twilioPassword,
		TwilioFrom:     twilioFrom,
	}
}

func CreateTopic(client *sns.Client, topicName string) (string, error) {
	input := &sns.CreateTopicInput{
		Name: aws.String(topicName),
	}

	result, err := client.CreateTopic(context.TODO(), input)
	if err != nil {
		return "", fmt.Errorf("failed to create SNS topic: %v", err)
	}

	return *result.TopicArn, nil
}

// PublishFraudAlert publishes the alert with the merchant category as a
// message attribute so subscribers can filter.
func (messenger *FsAlertMessenger) PublishFraudAlert(ctx context.Context, record models.PredictionRecord) (*sns.PublishOutput, error) {
	subject, message := record.GetFraudAlertContent()

	input := &sns.PublishInput{
		Message:           aws.String(message),
		Subject:           aws.String(subject),
		TopicArn:          aws.String(messenger.TopicArn),
		MessageAttributes: GetMessageAttributes(record),
	}

	publishOutput, err := messenger.Client.Publish(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to publish alert for prediction %s: %w", record.PredictionID, err)
	}

	return publishOutput, nil
}

func GetMessageAttributes(record models.PredictionRecord) map[string]types.MessageAttributeValue {
	return map[string]types.MessageAttributeValue{
		"MerchantCategory": NewMessageAttributeValue("String", record.MerchantCategory),
		"Verdict":          NewMessageAttributeValue("String", record.Verdict),
	}
}

func GetFilterPolicy(merchantCategory string) (*string, error) {
	filterPolicy := map[string][]string{
		"MerchantCategory": {merchantCategory},
	}

	policy, err := json.Marshal(filterPolicy)
	if err != nil {
		return nil, fmt.Errorf("failed to get message filter policy: %w", err)
	}

	policyString := string(policy)

	return &policyString, nil
}

func NewMessageAttributeValue(dataType string, stringValue string) types.MessageAttributeValue {
	return types.MessageAttributeValue{
		DataType:    aws.String(dataType),
		StringValue: aws.String(stringValue),
	}
}

// SendTextAlert texts the alert to the configured on-call number.
func (messenger *FsAlertMessenger) SendTextAlert(record models.PredictionRecord, toNumber string) error {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: messenger.TwilioUsername,
		Password: messenger.TwilioPassword,
	})

	params := &api.CreateMessageParams{}
	_, body := record.GetFraudAlertContent()
	params.SetBody(body)
	params.SetFrom(messenger.TwilioFrom)
	params.SetTo(toNumber)

	_, err := client.Api.CreateMessage(params)
	if err != nil {
		fmt.Println(err.Error())
		return err
	}
	return nil
}
