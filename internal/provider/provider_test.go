package provider

import (
	"context"
	"os"
	"testing"

	"github.com/hashicorp/go-cty/cty"
	"github.com/hashicorp/terraform-plugin-framework/path"
	fwprovider "github.com/hashicorp/terraform-plugin-framework/provider"
	fwschema "github.com/hashicorp/terraform-plugin-framework/provider/schema"
	"github.com/hashicorp/terraform-plugin-framework/schema/validator"
	"github.com/hashicorp/terraform-plugin-framework/types"
	"github.com/hashicorp/terraform-plugin-go/tfprotov5"
	"github.com/hashicorp/terraform-plugin-sdk/v2/terraform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	paymentsApi "github.com/paymentsio/terraform-provider-payments/api"
	"github.com/paymentsio/terraform-provider-payments/internal/provider/client"
)

// protoV5ProviderFactories are used to instantiate the muxed provider during acceptance testing.
// The factory function will be invoked for every Terraform CLI command executed
// to create a provider server to which the CLI can reattach.
var protoV5ProviderFactories = map[string]func() (tfprotov5.ProviderServer, error){
	"payments": func() (tfprotov5.ProviderServer, error) {
		muxServer, err := MuxProviderServerCreator(New("dev")(), NewFrameworkProvider("dev")())
		if err != nil {
			return nil, err
		}
		return muxServer(), nil
	},
}

func TestProvider(t *testing.T) {
	if err := New("dev")().InternalValidate(); err != nil {
		t.Fatalf("err: %s", err)
	}
}

func TestProvider_MuxServerAcceptsBothProviders(t *testing.T) {
	server, err := protoV5ProviderFactories["payments"]()
	require.NoError(t, err)

	resp, err := server.GetProviderSchema(context.Background(), &tfprotov5.GetProviderSchemaRequest{})
	require.NoError(t, err)
	assert.Empty(t, resp.Diagnostics)
	assert.Contains(t, resp.ResourceSchemas, "payments_payment_method")
	assert.Contains(t, resp.DataSourceSchemas, "payments_payment_methods")
	assert.Contains(t, resp.DataSourceSchemas, "payments_payment_method")
}

func TestProvider_Configure(t *testing.T) {
	p := New("dev")()

	diags := p.Configure(context.Background(), terraform.NewResourceConfigRaw(map[string]interface{}{
		"url":                 "https://payments.example.com/v1",
		"secret_key":          "sk_test_configure",
		"max_network_retries": 2,
	}))
	require.False(t, diags.HasError(), "%+v", diags)

	meta, ok := p.Meta().(*client.ApiClient)
	require.True(t, ok)
	assert.NotNil(t, meta.Client.PaymentMethod)
}

func TestProvider_ConfigureRejectsInvalidURL(t *testing.T) {
	p := New("dev")()

	diags := p.Configure(context.Background(), terraform.NewResourceConfigRaw(map[string]interface{}{
		"url":        "://missing-scheme",
		"secret_key": "sk_test_configure",
	}))
	assert.True(t, diags.HasError())
}

func TestProvider_MaxNetworkRetriesRangeMatchesAcrossProviders(t *testing.T) {
	ctx := context.Background()

	var resp fwprovider.SchemaResponse
	NewFrameworkProvider("dev")().Schema(ctx, fwprovider.SchemaRequest{}, &resp)
	attribute, ok := resp.Schema.Attributes["max_network_retries"].(fwschema.Int64Attribute)
	require.True(t, ok)

	sdkSchema := New("dev")().Schema["max_network_retries"]

	for value, valid := range map[int64]bool{-1: false, 0: true, 3: true, 10: true, 11: false} {
		var fwResp validator.Int64Response
		for _, v := range attribute.Validators {
			v.ValidateInt64(ctx, validator.Int64Request{
				Path:        path.Root("max_network_retries"),
				ConfigValue: types.Int64Value(value),
			}, &fwResp)
		}
		assert.Equal(t, !valid, fwResp.Diagnostics.HasError(), "framework, value %d", value)

		sdkDiags := sdkSchema.ValidateDiagFunc(int(value), cty.GetAttrPath("max_network_retries"))
		assert.Equal(t, !valid, sdkDiags.HasError(), "sdk, value %d", value)
	}
}

func testAccPreCheck(t *testing.T) {
	if _, ok := os.LookupEnv(PaymentsUrlEnvVar); !ok {
		t.Fatalf("Missing `%s` environment variable", PaymentsUrlEnvVar)
	}
	if _, ok := os.LookupEnv(paymentsApi.SecretKeyEnvVar); !ok {
		t.Fatalf("Missing `%s` environment variable", paymentsApi.SecretKeyEnvVar)
	}
}

func testAccCustomerPreCheck(t *testing.T) {
	if _, ok := os.LookupEnv("PAYMENTS_TEST_CUSTOMER"); !ok {
		t.Fatal("Missing `PAYMENTS_TEST_CUSTOMER` environment variable")
	}
}
