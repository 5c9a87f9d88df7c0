package tests

// The hand-written mocks in mocks_test.go follow the ports interfaces. To switch
// to generated ones:
//
//   go generate ./internal/adapter/http/handlers/tests
//
//go:generate mockery --name TaskService --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename task_service_mock.go --with-expecter
//go:generate mockery --name AIService --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename ai_service_mock.go --with-expecter
//go:generate mockery --name InsightsService --dir ../../../../core/ports --output ./mocks --outpkg mocks --filename insights_service_mock.go --with-expecter
