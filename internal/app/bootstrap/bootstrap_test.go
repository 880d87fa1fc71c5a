package bootstrap

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"

	appconfig "github.com/hpsconstructions/hps-platform/internal/config"
	"github.com/hpsconstructions/hps-platform/internal/leads"
	"github.com/hpsconstructions/hps-platform/internal/messaging"
	"github.com/hpsconstructions/hps-platform/internal/notify"
	"github.com/hpsconstructions/hps-platform/internal/profile"
	"github.com/hpsconstructions/hps-platform/internal/session"
	"github.com/hpsconstructions/hps-platform/pkg/logging"
)

func TestBuildRedisClientVerify(t *testing.T) {
	mr := miniredis.RunT(t)
	logger := logging.New("error")

	client := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, logger, true)
	if client == nil {
		t.Fatalf("expected client for reachable redis")
	}
	defer client.Close()

	mr.Close()
	if c := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, logger, true); c != nil {
		t.Fatalf("expected nil client for unreachable redis")
	}
	if c := BuildRedisClient(context.Background(), &appconfig.Config{}, logger, false); c != nil {
		t.Fatalf("expected nil client without address")
	}
}

func TestBuildProfileStore(t *testing.T) {
	mr := miniredis.RunT(t)
	logger := logging.New("error")
	client := BuildRedisClient(context.Background(), &appconfig.Config{RedisAddr: mr.Addr()}, logger, false)
	defer client.Close()

	store, name, err := BuildProfileStore(&appconfig.Config{ProfileStore: StoreRedis}, client, nil, logger)
	if err != nil || name != StoreRedis {
		t.Fatalf("expected redis store, got %q err=%v", name, err)
	}
	if _, ok := store.(*profile.RedisStore); !ok {
		t.Fatalf("expected *profile.RedisStore, got %T", store)
	}

	if _, name, _ := BuildProfileStore(&appconfig.Config{ProfileStore: StoreRedis}, nil, nil, logger); name != StoreMemory {
		t.Fatalf("expected memory fallback without redis, got %q", name)
	}

	if _, _, err := BuildProfileStore(&appconfig.Config{ProfileStore: StoreDynamo}, nil, nil, logger); err == nil {
		t.Fatalf("expected error for dynamo without aws config")
	}
	store, name, err = BuildProfileStore(&appconfig.Config{ProfileStore: StoreDynamo, ProfileDynamoTable: "profiles"}, nil, &aws.Config{Region: "ap-south-1"}, logger)
	if err != nil || name != StoreDynamo {
		t.Fatalf("expected dynamo store, got %q err=%v", name, err)
	}
	if _, ok := store.(*profile.DynamoStore); !ok {
		t.Fatalf("expected *profile.DynamoStore, got %T", store)
	}

	if _, _, err := BuildProfileStore(&appconfig.Config{ProfileStore: "etcd"}, nil, nil, logger); err == nil {
		t.Fatalf("expected error for unknown store")
	}
}

func TestBuildSessionStore(t *testing.T) {
	if _, ok := BuildSessionStore(&appconfig.Config{}, nil).(*session.MemoryStore); !ok {
		t.Fatalf("expected memory session store without redis")
	}
}

func TestBuildLeadRepositoryWithoutDatabase(t *testing.T) {
	repo, closeFn, err := BuildLeadRepository(context.Background(), &appconfig.Config{}, logging.New("error"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closeFn()
	if _, ok := repo.(*leads.InMemoryRepository); !ok {
		t.Fatalf("expected in-memory repository, got %T", repo)
	}
}

func TestBuildEmailSender(t *testing.T) {
	logger := logging.New("error")

	sender, name, err := BuildEmailSender(&appconfig.Config{EmailProvider: EmailSendGrid}, nil, logger)
	if err != nil || name != EmailStub {
		t.Fatalf("expected stub without api key, got %q err=%v", name, err)
	}
	if _, ok := sender.(*notify.StubEmailSender); !ok {
		t.Fatalf("expected stub sender, got %T", sender)
	}

	sender, name, err = BuildEmailSender(&appconfig.Config{EmailProvider: EmailSendGrid, SendGridAPIKey: "SG.test"}, nil, logger)
	if err != nil || name != EmailSendGrid {
		t.Fatalf("expected sendgrid, got %q err=%v", name, err)
	}
	if _, ok := sender.(*notify.SendGridSender); !ok {
		t.Fatalf("expected sendgrid sender, got %T", sender)
	}

	if _, name, _ := BuildEmailSender(&appconfig.Config{EmailProvider: EmailSES, SESFromEmail: "site@hps.in"}, &aws.Config{Region: "ap-south-1"}, logger); name != EmailSES {
		t.Fatalf("expected ses, got %q", name)
	}
	if _, _, err := BuildEmailSender(&appconfig.Config{EmailProvider: "mailgun"}, nil, logger); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
}

func TestBuildSMSSenderWithoutCredentials(t *testing.T) {
	sender, _, reason := BuildSMSSender(&appconfig.Config{SMSProvider: "auto"}, 1, logging.New("error"))
	if sender != nil {
		t.Fatalf("expected no sender without credentials")
	}
	if reason == "" {
		t.Fatalf("expected a reason")
	}
}

func TestBuildRelaySenderUsesOneProvider(t *testing.T) {
	cfg := &appconfig.Config{
		SMSProvider:              "auto",
		TwilioAccountSID:         "AC",
		TwilioAuthToken:          "t",
		TelnyxAPIKey:             "k",
		TelnyxMessagingProfileID: "p",
	}
	sender, provider, _ := BuildRelaySender(cfg, logging.New("error"))
	if sender == nil {
		t.Fatalf("expected a sender")
	}
	if provider != messaging.SMSProviderTwilio {
		t.Fatalf("expected twilio only, got %q", provider)
	}
	if _, ok := sender.(*messaging.TwilioSender); !ok {
		t.Fatalf("expected *messaging.TwilioSender, got %T", sender)
	}

	sender, _, reason := BuildRelaySender(&appconfig.Config{SMSProvider: "auto"}, logging.New("error"))
	if sender != nil || reason == "" {
		t.Fatalf("expected no sender and a reason without credentials")
	}
}

func TestNeedsAWS(t *testing.T) {
	if NeedsAWS(&appconfig.Config{ProfileStore: StoreRedis, EmailProvider: EmailSendGrid}) {
		t.Fatalf("redis + sendgrid needs no aws")
	}
	if !NeedsAWS(&appconfig.Config{ProfileStore: StoreDynamo}) {
		t.Fatalf("dynamo needs aws")
	}
}
