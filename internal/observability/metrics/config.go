package metrics

// Config labels the pipeline metrics and configures the end-of-run push.
type Config struct {
	ServiceName    string
	Environment    string
	PushgatewayURL string
}
