package utils

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
)

// CognitoVerifier resolves Cognito access tokens to a user identity.
// Identity itself lives in Cognito; this service only needs a stable user id
// for ownership and quota keys.
type CognitoVerifier struct {
	client *cognitoidentityprovider.Client
}

func NewCognitoVerifier(ctx context.Context, region string) (*CognitoVerifier, error) {
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	return &CognitoVerifier{client: cognitoidentityprovider.NewFromConfig(awsCfg)}, nil
}

// ValidateToken resolves an access token to (userID, email). The sub
// attribute is preferred as the user id, falling back to the Cognito
// username.
func (v *CognitoVerifier) ValidateToken(ctx context.Context, accessToken string) (string, string, error) {
	out, err := v.client.GetUser(ctx, &cognitoidentityprovider.GetUserInput{
		AccessToken: aws.String(accessToken),
	})
	if err != nil {
		return "", "", fmt.Errorf("invalid or expired token: %w", err)
	}

	userID := aws.ToString(out.Username)
	email := ""
	for _, attr := range out.UserAttributes {
		switch aws.ToString(attr.Name) {
		case "sub":
			userID = aws.ToString(attr.Value)
		case "email":
			email = aws.ToString(attr.Value)
		}
	}
	return userID, email, nil
}
