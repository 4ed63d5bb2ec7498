package testdata

const TestGenericConfig = `general:
  log_level: debug
  log_path: /tmp/convergence-test.log
  default_provider: sdc
  ssh_user: ubuntu
  ssh_private_key_path: ~/.ssh/id_ed25519

profiles:
  ready:
    max_wait: 120s
    period: 2s
    initial_delay: 1s
  slow-operation:
    max_wait: 10m
    period: 30s
    initial_delay: 30s

providers:
  aws:
    region: us-east-1
  azure:
    subscription_id: 00000000-0000-0000-0000-000000000000
  gcp:
    project_id: test-project
  sdc:
    login: admin
    private_key_path: ~/.ssh/id_rsa
    datacenters:
      us-east-1: https://us-east-1.api.example.com
      eu-ams-1: https://eu-ams-1.api.example.com
`

const TestInvalidConfig = `profiles:
  ready:
    max_wait: 0s
    period: 5s
`

const TestInvalidSSHPortConfig = `general:
  ssh_port: 70000
`
