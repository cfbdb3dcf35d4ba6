package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/spf13/cobra"

	"github.com/lumen-dev/lumen/internal/deploy"
	"github.com/lumen-dev/lumen/internal/errors"
)

func deployCmd() *cobra.Command {
	var (
		bucket string
		region string
		prefix string
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Upload the built site to object storage",
		Long: `Upload the build output to an S3 bucket.

Credentials come from the standard AWS environment variables
(AWS_ACCESS_KEY_ID, AWS_SECRET_ACCESS_KEY, and optionally
AWS_SESSION_TOKEN). Bucket and region default to the deploy
section of lumen.json.

Examples:
  lumen deploy
  lumen deploy --bucket=my-site --region=eu-west-1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(bucket, region, prefix)
		},
	}

	cmd.Flags().StringVarP(&bucket, "bucket", "b", "", "S3 bucket (default from lumen.json)")
	cmd.Flags().StringVarP(&region, "region", "r", "", "AWS region (default from lumen.json)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Key prefix inside the bucket")

	return cmd
}

func runDeploy(bucket, region, prefix string) error {
	cfg, err := loadProjectConfig()
	if err != nil {
		return err
	}
	if bucket == "" {
		bucket = cfg.Deploy.Bucket
	}
	if region == "" {
		region = cfg.Deploy.Region
	}
	if prefix == "" {
		prefix = cfg.Deploy.Prefix
	}
	if bucket == "" {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("no deploy bucket configured").
			WithSuggestion("set deploy.bucket in lumen.json or pass --bucket")
	}
	if region == "" {
		return errors.New(errors.CodeConfigInvalid).
			WithDetail("no deploy region configured").
			WithSuggestion("set deploy.region in lumen.json or pass --region")
	}

	client := s3.New(s3.Options{
		Region:      region,
		Credentials: aws.NewCredentialsCache(envCredentials{}),
	})

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	uploader := deploy.NewUploader(client, bucket, log,
		deploy.WithPrefix(prefix),
		deploy.WithConcurrency(cfg.Deploy.Concurrency))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	n, err := uploader.Upload(ctx, cfg.OutputPath())
	if err != nil {
		return err
	}
	success("deployed %d files to s3://%s in %s", n, bucket, time.Since(start).Round(time.Millisecond))
	return nil
}

// envCredentials resolves credentials from the standard AWS
// environment variables.
type envCredentials struct{}

func (envCredentials) Retrieve(ctx context.Context) (aws.Credentials, error) {
	key := os.Getenv("AWS_ACCESS_KEY_ID")
	secret := os.Getenv("AWS_SECRET_ACCESS_KEY")
	if key == "" || secret == "" {
		return aws.Credentials{}, errors.New(errors.CodeConfigInvalid).
			WithDetail("AWS credentials not set").
			WithSuggestion("export AWS_ACCESS_KEY_ID and AWS_SECRET_ACCESS_KEY")
	}
	return aws.Credentials{
		AccessKeyID:     key,
		SecretAccessKey: secret,
		SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
		Source:          "environment",
	}, nil
}
