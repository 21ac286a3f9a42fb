package ado

import (
	"github.com/microsoft/azure-devops-go-api/azuredevops/v7/webapi"
)

// AddOp builds a JSON patch "add" operation.
func AddOp(path string, value interface{}) webapi.JsonPatchOperation {
	return operation(webapi.OperationValues.Add, path, value)
}

// ReplaceOp builds a JSON patch "replace" operation.
func ReplaceOp(path string, value interface{}) webapi.JsonPatchOperation {
	return operation(webapi.OperationValues.Replace, path, value)
}

// RemoveOp builds a JSON patch "remove" operation.
func RemoveOp(path string) webapi.JsonPatchOperation {
	return operation(webapi.OperationValues.Remove, path, nil)
}

func operation(op webapi.Operation, path string, value interface{}) webapi.JsonPatchOperation {
	return webapi.JsonPatchOperation{
		Op:    &op,
		Path:  &path,
		Value: value,
	}
}
