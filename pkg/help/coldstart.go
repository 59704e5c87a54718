package help

const ColdstartYAML = `# lpa (llm-page-assistant) Quick Start

setup:
  configure: |
    lpa settings set --base-url https://api.openai.com/v1 --api-key sk-... --model gpt-4o-mini
  check: |
    lpa settings show
    lpa settings get modelName
    lpa settings put articleLength 800

page_input:
  url: "--url https://example.com/product   (plain GET)"
  render: "--url ... --render                (headless Chrome, for script-built pages)"
  file: "--html-file page.html [--url ...]   (saved page, url used for context only)"

commands:
  snapshot: |
    lpa snapshot --url https://example.com/product
  email: |
    lpa email --url https://example.com/product --out emails/
  chat: |
    lpa chat "Write a two line intro for a pump distributor"
  keywords: |
    lpa keywords --url https://example.com/product
  expand: |
    lpa expand --url https://example.com/product --keywords "industrial pumps, valves"
  article: |
    lpa article --url https://example.com/product --out articles/
  history: |
    lpa runs --limit 20 --table
    lpa runs --failed
    lpa runs --url-id 3
    lpa runs --prune 720h
  serve: |
    lpa serve --addr 127.0.0.1:8787

http_api:
  - "POST /v1/messages   {type, pageContent, message, keywords} -> {success, data | error}"
  - "GET  /v1/settings   stored settings, API key masked"
  - "PUT  /v1/settings   save settings (apiKey, baseUrl, modelName required; empty or masked apiKey keeps the stored key)"
  - "GET  /healthz"

message_types: [getPageContent, generateEmail, chatMessage, extractKeywords, expandKeywords, generateArticle]

error_types:
  configuration_missing: "apiKey, baseUrl or modelName not set; exit code 2"
  transport_error: "network failure or non-2xx reply from the endpoint"
  response_format_error: "reply without choices[0].message.content"
  task_parse_error: "keyword reply without a 'Keywords:' section"
  invalid_request: "malformed pageContent or unsupported task"

output:
  - "YAML on stdout by default, --format json for JSON"
  - "status lines and JSON logs on stderr, --quiet for errors only"
`
